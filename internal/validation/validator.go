// Package validation checks values against the type declared for their
// attribute.
package validation

import (
	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/slogger"
	"github.com/deepnoodle-ai/strict/types"
)

// Validator validates value as the content of attr on instance. instance may
// be nil; when it implements types.Namespace it is consulted first to resolve
// forward references.
type Validator func(instance any, attr types.Attribute, value any) error

// Observer is notified of every validation performed by a Validator. err is
// nil on success.
type Observer interface {
	ObserveValidation(attr types.Attribute, err error)
}

// Option configures TypeValidator.
type Option func(*options)

type options struct {
	emptyOK   bool
	namespace types.Namespace
	logger    slogger.Logger
	observer  Observer
}

// WithEmptyOK sets whether empty values (nil, zero scalars, empty strings and
// collections) are accepted. The default is true.
func WithEmptyOK(ok bool) Option {
	return func(o *options) {
		o.emptyOK = ok
	}
}

// WithNamespace sets the namespace used to resolve forward references before
// falling back to types.Default.
func WithNamespace(ns types.Namespace) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger slogger.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers an observer notified after each validation.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func newOptions(opts []Option) *options {
	o := &options{emptyOK: true}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slogger.DefaultLogger
	}
	return o
}

// TypeValidator returns a Validator that checks values against the type of
// the attribute they are assigned to. An attribute without a type accepts
// any value.
//
//	validate := validation.TypeValidator(validation.WithEmptyOK(false))
//	err := validate(nil, types.Attribute{Name: "tags", Type: types.List(types.Str)}, tags)
func TypeValidator(opts ...Option) Validator {
	o := newOptions(opts)
	return func(instance any, attr types.Attribute, value any) error {
		err := o.validate(instance, attr, value)
		if o.observer != nil {
			o.observer.ObserveValidation(attr, err)
		}
		return err
	}
}

// Validate checks a single value against t without an owning instance.
func Validate(name string, t types.Type, value any, opts ...Option) error {
	return TypeValidator(opts...)(nil, types.Attribute{Name: name, Type: t}, value)
}

func (o *options) validate(instance any, attr types.Attribute, value any) error {
	if !o.emptyOK && isEmpty(value) {
		return &typeerr.EmptyError{Value: value, Attribute: attr}
	}
	c := &checker{
		attr:   attr,
		ns:     o.namespaceFor(instance),
		logger: o.logger,
	}
	return c.validateElements(value, attr.Type)
}

func (o *options) namespaceFor(instance any) types.Namespace {
	namespaces := make([]types.Namespace, 0, 3)
	if ns, ok := instance.(types.Namespace); ok {
		namespaces = append(namespaces, ns)
	}
	if o.namespace != nil {
		namespaces = append(namespaces, o.namespace)
	}
	namespaces = append(namespaces, types.Default)
	return types.Chain(namespaces...)
}

// ResolveTypes replaces every forward reference in the attribute types with
// the type it names, in place.
func ResolveTypes(attrs []types.Attribute, ns types.Namespace) error {
	if ns == nil {
		ns = types.Default
	}
	for i := range attrs {
		resolved, err := types.Resolve(attrs[i].Type, ns)
		if err != nil {
			return err
		}
		attrs[i].Type = resolved
	}
	return nil
}
