// Package tool implements the tool subsystem of the agent: a registry of
// named, schema-described capabilities and a dispatcher that adapts model
// supplied arguments to each handler's calling convention.
package tool

import (
	"errors"
	"fmt"

	"github.com/furixturi/deep-research-scratch/internal/util"
)

// Error codes carried by ToolError.
const (
	// CodeArgumentError means no calling convention of the handler accepted
	// the supplied arguments.
	CodeArgumentError = "ARGUMENT_ERROR"
	// CodeExecutionError means the handler ran and failed.
	CodeExecutionError = "EXECUTION_ERROR"
)

// ErrArgumentMismatch is returned by a Handler when it cannot bind the
// arguments in the shape it was called with. The dispatcher reacts by trying
// the next calling convention.
var ErrArgumentMismatch = errors.New("arguments do not match handler calling convention")

// Tool is a self-describing tool that can be registered with
// Registry.RegisterTool.
type Tool interface {
	Handler

	// Name returns the unique identifier for this tool.
	Name() string

	// Description is shown to the model and to humans.
	Description() string

	// Parameters returns the JSON schema of accepted arguments. A nil schema
	// selects the default single "query" string schema.
	Parameters() map[string]any
}

// Spec is a registry entry.
type Spec struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     Handler
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// DuplicateToolError is returned when a tool name is registered twice.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// UnknownToolError is returned when a tool name is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ToolError represents errors that occur during tool dispatch.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
	Err     error  `json:"-"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// IsArgumentError reports whether err is a ToolError raised because the
// arguments could not be adapted to the handler.
func IsArgumentError(err error) bool {
	var te *ToolError
	return errors.As(err, &te) && te.Code == CodeArgumentError
}
