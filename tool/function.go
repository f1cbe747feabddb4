package tool

import (
	"context"
	"fmt"

	"github.com/furixturi/deep-research-scratch/internal/util"
)

// Handler executes a tool. A handler exposes two calling conventions and
// returns ErrArgumentMismatch from either one when it cannot bind the value
// it was given.
type Handler interface {
	// CallNamed binds args as named parameters.
	CallNamed(ctx context.Context, args map[string]any) (string, error)

	// CallPositional binds v as a single positional parameter.
	CallPositional(ctx context.Context, v any) (string, error)
}

// StringFunc adapts a single string argument function. It binds only a
// positional string, so named arguments reach it through the dispatcher's
// single-value fallback.
type StringFunc func(ctx context.Context, input string) (string, error)

// CallNamed always mismatches.
func (f StringFunc) CallNamed(context.Context, map[string]any) (string, error) {
	return "", ErrArgumentMismatch
}

// CallPositional calls f when v is a string.
func (f StringFunc) CallPositional(ctx context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrArgumentMismatch, v)
	}
	return f(ctx, s)
}

// MapFunc receives the whole argument mapping as one value.
type MapFunc func(ctx context.Context, args map[string]any) (string, error)

// CallNamed always mismatches; the mapping is passed positionally.
func (f MapFunc) CallNamed(context.Context, map[string]any) (string, error) {
	return "", ErrArgumentMismatch
}

// CallPositional calls f when v is a mapping.
func (f MapFunc) CallPositional(ctx context.Context, v any) (string, error) {
	args, ok := v.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: expected object, got %T", ErrArgumentMismatch, v)
	}
	return f(ctx, args)
}

// TypedFunc is a handler whose arguments decode into a struct.
type TypedFunc[T any] struct {
	fn     func(ctx context.Context, args T) (string, error)
	schema map[string]any
}

// Typed wraps fn so named arguments are validated against the schema derived
// from T and strictly decoded into it. Unknown keys are a mismatch.
//
// Example:
//
//	type CodeArgs struct {
//	  Code string `json:"code" description:"Source to execute"`
//	}
//
//	h := tool.Typed(func(ctx context.Context, a CodeArgs) (string, error) {
//	  return run(a.Code), nil
//	})
func Typed[T any](fn func(ctx context.Context, args T) (string, error)) *TypedFunc[T] {
	return &TypedFunc[T]{fn: fn, schema: SchemaFor[T]()}
}

// Schema returns the schema derived from T.
func (t *TypedFunc[T]) Schema() map[string]any { return t.schema }

// CallNamed validates and decodes args into T.
func (t *TypedFunc[T]) CallNamed(ctx context.Context, args map[string]any) (string, error) {
	if err := util.ValidateParameters(args, t.schema); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArgumentMismatch, err)
	}
	var v T
	if err := util.DecodeStrict(args, &v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArgumentMismatch, err)
	}
	return t.fn(ctx, v)
}

// CallPositional accepts a mapping and treats it as named arguments.
func (t *TypedFunc[T]) CallPositional(ctx context.Context, v any) (string, error) {
	args, ok := v.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: expected object, got %T", ErrArgumentMismatch, v)
	}
	return t.CallNamed(ctx, args)
}

// SchemaFor derives a parameter schema from the struct type T.
func SchemaFor[T any]() map[string]any {
	var zero T
	return util.CreateSchema(zero)
}

// FunctionTool bundles a handler with its name, description and schema so it
// can be passed around as a Tool.
type FunctionTool struct {
	Handler

	name        string
	description string
	parameters  map[string]any
}

// NewFunctionTool constructs a FunctionTool. A nil parameters schema selects
// the default "query" schema at registration, unless the handler is a
// TypedFunc, whose derived schema is used.
func NewFunctionTool(name, description string, parameters map[string]any, h Handler) *FunctionTool {
	if parameters == nil {
		if s, ok := h.(interface{ Schema() map[string]any }); ok {
			parameters = s.Schema()
		}
	}
	return &FunctionTool{
		Handler:     h,
		name:        name,
		description: description,
		parameters:  parameters,
	}
}

// Name returns the unique tool name.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }
