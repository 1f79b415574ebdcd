package types

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError reports a malformed type expression.
type ParseError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid type expression %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

var scalarNames = map[string]Type{
	"str":      Str,
	"string":   Str,
	"int":      Int,
	"float":    Float,
	"bool":     Bool,
	"bytes":    Bytes,
	"None":     None,
	"NoneType": None,
	"Any":      Any,
}

const (
	genericList     = "List"
	genericSet      = "Set"
	genericDict     = "Dict"
	genericTuple    = "Tuple"
	genericUnion    = "Union"
	genericOptional = "Optional"
	genericCallable = "Callable"
)

// Similar spellings of the same container are validated alike.
var genericNames = map[string]string{
	"List":           genericList,
	"list":           genericList,
	"Sequence":       genericList,
	"Set":            genericSet,
	"set":            genericSet,
	"FrozenSet":      genericSet,
	"frozenset":      genericSet,
	"Dict":           genericDict,
	"dict":           genericDict,
	"Mapping":        genericDict,
	"MutableMapping": genericDict,
	"OrderedDict":    genericDict,
	"DefaultDict":    genericDict,
	"Tuple":          genericTuple,
	"tuple":          genericTuple,
	"Union":          genericUnion,
	"Optional":       genericOptional,
	"Callable":       genericCallable,
}

// Parse parses a type expression such as "Dict[str, List[Optional[int]]]".
// Names that are neither builtins nor known to ns become forward references.
// Quoted names ('User' or "User") are always forward references. ns may be nil.
func Parse(expr string, ns Namespace) (Type, error) {
	p := &parser{expr: expr, ns: ns}
	if err := p.lex(); err != nil {
		return nil, err
	}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string, ns Namespace) Type {
	t, err := Parse(expr, ns)
	if err != nil {
		panic(err)
	}
	return t
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokQuoted
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokComma
	tokEllipsis
	tokPipe
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	expr   string
	ns     Namespace
	tokens []token
	pos    int
}

func (p *parser) lex() error {
	s := p.expr
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case c == utf8.RuneError && size == 1:
			return &ParseError{Expr: s, Pos: i, Msg: "invalid UTF-8"}
		case unicode.IsSpace(c):
			i += size
		case c == '[':
			p.tokens = append(p.tokens, token{tokLBracket, "[", i})
			i++
		case c == ']':
			p.tokens = append(p.tokens, token{tokRBracket, "]", i})
			i++
		case c == '(':
			p.tokens = append(p.tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			p.tokens = append(p.tokens, token{tokRParen, ")", i})
			i++
		case c == ',':
			p.tokens = append(p.tokens, token{tokComma, ",", i})
			i++
		case c == '|':
			p.tokens = append(p.tokens, token{tokPipe, "|", i})
			i++
		case strings.HasPrefix(s[i:], "..."):
			p.tokens = append(p.tokens, token{tokEllipsis, "...", i})
			i += 3
		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], s[i])
			if end < 0 {
				return &ParseError{Expr: s, Pos: i, Msg: "unterminated quoted name"}
			}
			name := strings.TrimSpace(s[i+1 : i+1+end])
			if name == "" {
				return &ParseError{Expr: s, Pos: i, Msg: "empty quoted name"}
			}
			p.tokens = append(p.tokens, token{tokQuoted, name, i})
			i += end + 2
		case isIdentRune(c):
			start := i
			for i < len(s) {
				r, n := utf8.DecodeRuneInString(s[i:])
				if !isIdentRune(r) {
					break
				}
				i += n
			}
			p.tokens = append(p.tokens, token{tokIdent, s[start:i], start})
		default:
			return &ParseError{Expr: s, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	p.tokens = append(p.tokens, token{tokEOF, "", len(s)})
	return nil
}

func isIdentRune(c rune) bool {
	return c == '_' || c == '.' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) error {
	tok := p.next()
	if tok.kind != kind {
		return p.errorf(tok, "expected %s", what)
	}
	return nil
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &ParseError{Expr: p.expr, Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

// parseUnion parses `a | b | c`.
func (p *parser) parseUnion() (Type, error) {
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	members := []Type{first}
	for p.accept(tokPipe) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}
	return Union(members...), nil
}

func (p *parser) parseType() (Type, error) {
	tok := p.next()
	switch tok.kind {
	case tokQuoted:
		return Ref(tok.text), nil
	case tokIdent:
	default:
		if tok.kind == tokEOF {
			return nil, p.errorf(tok, "expected a type")
		}
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}

	if generic, ok := genericNames[tok.text]; ok {
		return p.parseGeneric(tok, generic)
	}
	if p.peek().kind == tokLBracket {
		return nil, p.errorf(p.peek(), "type %s is not generic", tok.text)
	}
	if t, ok := scalarNames[tok.text]; ok {
		return t, nil
	}
	if p.ns != nil {
		if t, ok := p.ns.Lookup(tok.text); ok {
			return t, nil
		}
	}
	return Ref(tok.text), nil
}

func (p *parser) parseGeneric(name token, generic string) (Type, error) {
	if !p.accept(tokLBracket) {
		switch generic {
		case genericList:
			return List(Any), nil
		case genericSet:
			return Set(Any), nil
		case genericDict:
			return Dict(Any, Any), nil
		case genericTuple:
			return VarTuple(Any), nil
		case genericCallable:
			return AnyCallable(), nil
		}
		return nil, p.errorf(name, "%s requires type arguments", name.text)
	}

	var t Type
	var err error
	switch generic {
	case genericCallable:
		t, err = p.parseCallableArgs(name)
	case genericTuple:
		t, err = p.parseTupleArgs(name)
	default:
		var args []Type
		args, err = p.parseArgList()
		if err == nil {
			t, err = p.buildGeneric(name, generic, args)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBracket, "]"); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *parser) parseArgList() ([]Type, error) {
	var args []Type
	for {
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if !p.accept(tokComma) {
			return args, nil
		}
		// A trailing "..." belongs to Tuple[T, ...].
		if p.peek().kind == tokEllipsis {
			return args, nil
		}
	}
}

func (p *parser) buildGeneric(name token, generic string, args []Type) (Type, error) {
	want := func(n int) error {
		if len(args) != n {
			return p.errorf(name, "%s takes %d type argument(s), got %d", name.text, n, len(args))
		}
		return nil
	}
	switch generic {
	case genericList:
		if err := want(1); err != nil {
			return nil, err
		}
		return List(args[0]), nil
	case genericSet:
		if err := want(1); err != nil {
			return nil, err
		}
		return Set(args[0]), nil
	case genericDict:
		if err := want(2); err != nil {
			return nil, err
		}
		return Dict(args[0], args[1]), nil
	case genericOptional:
		if err := want(1); err != nil {
			return nil, err
		}
		return Optional(args[0]), nil
	case genericUnion:
		return Union(args...), nil
	}
	return nil, p.errorf(name, "unsupported generic %s", name.text)
}

func (p *parser) parseTupleArgs(name token) (Type, error) {
	if p.accept(tokLParen) {
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return Tuple(), nil
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if len(args) == 1 && p.peek().kind == tokEllipsis {
		p.next()
		return VarTuple(args[0]), nil
	}
	return Tuple(args...), nil
}

func (p *parser) parseCallableArgs(name token) (Type, error) {
	var params []Type
	anyParams := false
	switch {
	case p.accept(tokEllipsis):
		anyParams = true
	case p.accept(tokLBracket):
		if !p.accept(tokRBracket) {
			list, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRBracket, "]"); err != nil {
				return nil, err
			}
			params = list
		}
	default:
		return nil, p.errorf(p.peek(), "Callable expects a parameter list or ...")
	}
	if err := p.expect(tokComma, ","); err != nil {
		return nil, err
	}
	result, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if anyParams {
		return CallableReturning(result), nil
	}
	return Callable(params, result), nil
}
