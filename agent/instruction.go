package agent

import (
	"github.com/furixturi/deep-research-scratch/internal/util"
)

// DefaultInstruction is the system prompt template used when none is
// configured. It is rendered with PromptData.
const DefaultInstruction = `You are a deep research assistant. Work through the user's question step by step and use the available tools whenever you need more information.

Available tools:
{{- range .Tools }}
- {{ .Name }}: {{ .Description }}
{{- else }}
(none)
{{- end }}

Each tool result is returned to you as an observation.
{{- if .TextActions }}
To use a tool without native tool calling, reply with:
Action: <tool name>
Action Input: <input>
{{- end }}
When you are confident, reply with a line starting with "{{ .FinalAnswerMarker }}" followed by your answer.`

// ToolInfo describes one tool in the system prompt.
type ToolInfo struct {
	Name        string
	Description string
}

// PromptData is the input of an Instruction.
type PromptData struct {
	Tools             []ToolInfo
	FinalAnswerMarker string
	TextActions       bool
}

// Provider supplies dynamic instruction text at construction time.
type Provider interface {
	Instruction(PromptData) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(PromptData) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(d PromptData) (string, error) { return f(d) }

// Instruction represents either a static template or a dynamic provider.
// This mirrors a union of string | provider in a Go-idiomatic way.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a text/template string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(PromptData) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static template.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider or rendering
// the template.
func (i Instruction) Resolve(d PromptData) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(d)
	}
	return util.RenderTemplate("instruction", i.text, d)
}
