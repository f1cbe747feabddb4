package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/furixturi/deep-research-scratch/logging"
	"github.com/furixturi/deep-research-scratch/model"
	"github.com/furixturi/deep-research-scratch/tool"
)

// ToolErrorPolicy decides what a handler failure does to the run.
type ToolErrorPolicy int

const (
	// PolicyAbort ends the run in FAILED when a handler fails.
	PolicyAbort ToolErrorPolicy = iota
	// PolicyRecord stores the failure as the observation and continues.
	PolicyRecord
)

// ModelCaller is the model call abstraction used by the loop. *model.Router
// implements it.
type ModelCaller interface {
	Call(ctx context.Context, req model.CallRequest) (model.Result, error)
}

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	Instruction     Instruction
	MaxSteps        int
	AgentID         string
	ToolErrorPolicy ToolErrorPolicy
	// TextActions converts "Action:" / "Action Input:" text into tool calls
	// for models without native tool calling.
	TextActions bool
	Logger      logging.Logger
}

// WithTextActions enables the text action protocol.
func WithTextActions() func(o *Options) {
	return func(o *Options) { o.TextActions = true }
}

// WithMaxSteps sets the default step budget.
func WithMaxSteps(n int) func(o *Options) {
	return func(o *Options) { o.MaxSteps = n }
}

// WithToolErrorPolicy sets how handler failures are treated.
func WithToolErrorPolicy(p ToolErrorPolicy) func(o *Options) {
	return func(o *Options) { o.ToolErrorPolicy = p }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Agent is the ReAct controller. The system prompt and tool catalog are
// captured from the registry when the agent is built.
type Agent struct {
	caller       ModelCaller
	dispatcher   *tool.Dispatcher
	systemPrompt string
	tools        []model.ToolDefinition
	maxSteps     int
	agentID      string
	policy       ToolErrorPolicy
	textActions  bool
	logger       logging.Logger
}

// New builds an agent over caller and the dispatcher's registry.
func New(caller ModelCaller, dispatcher *tool.Dispatcher, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Instruction:     NewInstructionFromText(DefaultInstruction),
		MaxSteps:        DefaultMaxSteps,
		AgentID:         AgentTypeSingle,
		ToolErrorPolicy: PolicyAbort,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MaxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", opts.MaxSteps)
	}

	reg := dispatcher.Registry()
	tools := reg.SchemaForModel()

	data := PromptData{
		FinalAnswerMarker: FinalAnswerMarker,
		TextActions:       opts.TextActions,
	}
	for _, def := range tools {
		data.Tools = append(data.Tools, ToolInfo{Name: def.Function.Name, Description: def.Function.Description})
	}
	prompt, err := opts.Instruction.Resolve(data)
	if err != nil {
		return nil, fmt.Errorf("resolve instruction: %w", err)
	}

	return &Agent{
		caller:       caller,
		dispatcher:   dispatcher,
		systemPrompt: prompt,
		tools:        tools,
		maxSteps:     opts.MaxSteps,
		agentID:      opts.AgentID,
		policy:       opts.ToolErrorPolicy,
		textActions:  opts.TextActions,
		logger:       opts.Logger,
	}, nil
}

// SystemPrompt returns the rendered system prompt.
func (a *Agent) SystemPrompt() string { return a.systemPrompt }

// MaxSteps returns the default step budget.
func (a *Agent) MaxSteps() int { return a.maxSteps }

// executeToolCall decodes and dispatches one tool call and returns the
// observation. Only errors that end the run are returned.
func (a *Agent) executeToolCall(ctx context.Context, logger logging.Logger, call model.ToolCall) (string, error) {
	args := decodeArguments(call.Function.Arguments)

	out, err := a.dispatcher.Execute(ctx, call.Function.Name, args)
	if err == nil {
		return out, nil
	}

	var unknown *tool.UnknownToolError
	if errors.As(err, &unknown) {
		return "", err
	}
	if tool.IsArgumentError(err) || a.policy == PolicyRecord {
		logger.Warn("agent.tool.error_recorded", "tool", call.Function.Name, "tool_call_id", call.ID, "error", err.Error())
		return fmt.Sprintf("Error: %v", err), nil
	}
	return "", err
}
