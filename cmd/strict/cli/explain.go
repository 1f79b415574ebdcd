package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/strict/schema"
	"github.com/deepnoodle-ai/strict/types"
	"github.com/deepnoodle-ai/wonton/cli"
)

// ExplainOptions holds configuration for the explain command
type ExplainOptions struct {
	Expr   string
	Schema string
}

func registerExplainCommand(app *cli.App) {
	app.Command("explain").
		Description("Show how a type expression is parsed").
		Long("Parse a type expression and print its canonical form and structure. Names declared by --schema resolve against it; any name left unresolved is listed.").
		Args("expr").
		Flags(
			cli.String("schema", "s").Env("STRICT_SCHEMA").Help("Schema whose names the expression may use"),
		).
		Run(func(ctx *cli.Context) error {
			parseGlobalFlags(ctx)
			options := ExplainOptions{
				Expr:   ctx.Arg(0),
				Schema: ctx.String("schema"),
			}
			return runExplain(os.Stdout, options)
		})
}

func runExplain(out io.Writer, options ExplainOptions) error {
	if strings.TrimSpace(options.Expr) == "" {
		return cli.Errorf("a type expression is required")
	}

	var ns types.Namespace = types.Default
	if options.Schema != "" {
		s, err := schema.Load(options.Schema)
		if err != nil {
			return err
		}
		ns = types.Chain(s.Namespace(), types.Default)
	}

	t, err := types.Parse(options.Expr, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", boldStyle.Sprint("type:"), types.Format(t))
	fmt.Fprintln(out, explainTree(t, ns))

	if missing := types.Unresolved(t, ns); len(missing) > 0 {
		fmt.Fprintln(out, errorStyle.Sprintf("unresolved: %s", strings.Join(missing, ", ")))
		return cli.Errorf("expression %q has unresolved references", options.Expr)
	}
	return nil
}

// explainTree renders t as an indented tree. A reference at the root is
// expanded once; nested references are shown by name only.
func explainTree(t types.Type, ns types.Namespace) string {
	var b strings.Builder
	label := nodeLabel(t)
	if ref, ok := t.(*types.RefType); ok {
		if resolved, err := types.ResolveRef(ref, ns); err == nil {
			b.WriteString(label + " = " + types.Format(resolved) + "\n")
			writeChildren(&b, resolved, "")
			return strings.TrimRight(b.String(), "\n")
		}
	}
	b.WriteString(label + "\n")
	writeChildren(&b, t, "")
	return strings.TrimRight(b.String(), "\n")
}

type treeNode struct {
	prefix string
	t      types.Type
}

func children(t types.Type) []treeNode {
	switch t := t.(type) {
	case *types.RefType:
		return nil
	case *types.NewTypeType:
		return []treeNode{{"super", t.Super}}
	case *types.TypeVarType:
		if t.Bound != nil {
			return []treeNode{{"bound", t.Bound}}
		}
		nodes := make([]treeNode, len(t.Constraints))
		for i, c := range t.Constraints {
			nodes[i] = treeNode{"", c}
		}
		return nodes
	case *types.RecordType:
		nodes := make([]treeNode, len(t.Fields))
		for i, f := range t.Fields {
			nodes[i] = treeNode{f.Name, f.Type}
		}
		return nodes
	case *types.CallableType:
		var nodes []treeNode
		if !t.AnyParams {
			for _, p := range t.Params {
				nodes = append(nodes, treeNode{"param", p})
			}
		}
		if t.Result != nil {
			nodes = append(nodes, treeNode{"result", t.Result})
		}
		return nodes
	case *types.DictType:
		return []treeNode{{"key", t.Key}, {"value", t.Value}}
	}
	args := types.Args(t)
	nodes := make([]treeNode, len(args))
	for i, arg := range args {
		nodes[i] = treeNode{"", arg}
	}
	return nodes
}

func writeChildren(b *strings.Builder, t types.Type, indent string) {
	nodes := children(t)
	for i, node := range nodes {
		branch, next := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, next = "└── ", "    "
		}
		label := nodeLabel(node.t)
		if node.prefix != "" {
			label = node.prefix + ": " + label
		}
		b.WriteString(indent + branch + label + "\n")
		writeChildren(b, node.t, indent+next)
	}
}

func nodeLabel(t types.Type) string {
	if t == nil {
		return "Any " + mutedStyle.Sprint("(any)")
	}
	return t.String() + " " + mutedStyle.Sprintf("(%s)", t.Kind())
}
