package builtin

import (
	"context"
	"testing"

	"github.com/furixturi/deep-research-scratch/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, Register(reg))

	assert.Equal(t, []string{SearchToolName, CodeToolName}, reg.Names())
	assert.Equal(t, map[string]string{
		"search": "Search the web for information",
		"code":   "Execute Python code",
	}, reg.ListTools())

	code, err := reg.Lookup(CodeToolName)
	require.NoError(t, err)
	props := code.Parameters["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "The Python code to execute"}, props["code"])
	assert.Equal(t, []string{"code"}, code.Parameters["required"])

	var dup *tool.DuplicateToolError
	assert.ErrorAs(t, Register(reg), &dup)
}

func TestDispatch(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, Register(reg))
	d := tool.NewDispatcher(reg)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"search named query", "search", map[string]any{"query": "go generics"}, "Simulated search result for query: go generics"},
		{"search text-protocol input", "search", map[string]any{"input": "go"}, "Simulated search result for query: go"},
		{"code named", "code", map[string]any{"code": "print(1)"}, "Code executor stub, executed code: print(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Execute(context.Background(), tt.tool, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDispatch_CodeRejectsWrongShape(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, Register(reg))

	_, err := tool.NewDispatcher(reg).Execute(context.Background(), "code", map[string]any{"input": "print(1)"})
	assert.True(t, tool.IsArgumentError(err))
}
