// Package builtin provides the stub tools shipped with the agent: a web
// search and a code executor. Both return canned observations and are meant
// to be replaced by real integrations.
package builtin

import (
	"context"
	"fmt"

	"github.com/furixturi/deep-research-scratch/tool"
)

// Tool names.
const (
	SearchToolName = "search"
	CodeToolName   = "code"
)

// CodeArgs are the arguments of the code tool.
type CodeArgs struct {
	Code string `json:"code" description:"The Python code to execute"`
}

// Search returns a simulated search result for query.
func Search(_ context.Context, query string) (string, error) {
	return fmt.Sprintf("Simulated search result for query: %s", query), nil
}

// ExecuteCode pretends to run the code.
func ExecuteCode(_ context.Context, args CodeArgs) (string, error) {
	return fmt.Sprintf("Code executor stub, executed code: %s", args.Code), nil
}

// SearchTool returns the search tool with the default query schema.
func SearchTool() tool.Tool {
	return tool.NewFunctionTool(SearchToolName, "Search the web for information", nil, tool.StringFunc(Search))
}

// CodeTool returns the code tool with a schema derived from CodeArgs.
func CodeTool() tool.Tool {
	return tool.NewFunctionTool(CodeToolName, "Execute Python code", nil, tool.Typed(ExecuteCode))
}

// Register adds every builtin tool to reg.
func Register(reg *tool.Registry) error {
	for _, t := range []tool.Tool{SearchTool(), CodeTool()} {
		if err := reg.RegisterTool(t); err != nil {
			return err
		}
	}
	return nil
}
