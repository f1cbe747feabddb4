package tool

import (
	"context"
	"errors"
	"time"

	"github.com/furixturi/deep-research-scratch/logging"
)

// DispatcherOptions configure a Dispatcher.
type DispatcherOptions struct {
	Logger logging.Logger
	// PreviewLen bounds how much of a result is written to the log.
	PreviewLen int
}

// Dispatcher resolves tools by name and invokes them. It holds no per-run
// state and is safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	logger   logging.Logger
	preview  int
}

// NewDispatcher creates a dispatcher over reg.
func NewDispatcher(reg *Registry, optFns ...func(o *DispatcherOptions)) *Dispatcher {
	opts := DispatcherOptions{Logger: logging.NoOpLogger{}, PreviewLen: 200}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Dispatcher{registry: reg, logger: opts.Logger, preview: opts.PreviewLen}
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Execute invokes the named tool and returns its result unchanged.
//
// Arguments are adapted in order: named parameters, then the single value
// when exactly one argument was supplied, then the whole mapping as one
// positional value.
//
// Error Semantics:
//
//	unregistered name          -> *UnknownToolError
//	no convention matched      -> *ToolError{Code: "ARGUMENT_ERROR"}
//	*ToolError from handler    -> forwarded unchanged
//	other handler error        -> *ToolError{Code: "EXECUTION_ERROR"}
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	spec, err := d.registry.Lookup(name)
	if err != nil {
		d.logger.Error("tool.call.error", "tool", name, "error", err.Error())
		return "", err
	}
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	d.logger.Debug("tool.call.start", "tool", name, "args", len(args))

	out, err := spec.Handler.CallNamed(ctx, args)
	if errors.Is(err, ErrArgumentMismatch) && len(args) == 1 {
		for _, v := range args {
			out, err = spec.Handler.CallPositional(ctx, v)
		}
	}
	if errors.Is(err, ErrArgumentMismatch) {
		out, err = spec.Handler.CallPositional(ctx, args)
	}

	if m, ok := d.logger.(logging.MetricsLogger); ok {
		m.LogToolCall(name, time.Since(start), err == nil, err)
	}
	if err != nil {
		toolErr := classify(name, err)
		d.logger.Error("tool.call.error", "tool", name, "code", toolErr.Code, "error", toolErr.Message)
		return "", toolErr
	}

	d.logger.Info("tool.call.success",
		"tool", name,
		"duration_ms", time.Since(start).Milliseconds(),
		"result", logging.Preview(out, d.preview),
	)
	return out, nil
}

func classify(name string, err error) *ToolError {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}
	code := CodeExecutionError
	if errors.Is(err, ErrArgumentMismatch) {
		code = CodeArgumentError
	}
	return &ToolError{
		Tool:    name,
		Message: err.Error(),
		Code:    code,
		Err:     err,
	}
}
