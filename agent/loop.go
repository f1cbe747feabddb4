package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/furixturi/deep-research-scratch/logging"
	"github.com/furixturi/deep-research-scratch/memory"
	"github.com/furixturi/deep-research-scratch/model"
)

// Outcome is the result of one run.
type Outcome struct {
	RunID string `json:"run_id"`
	State State  `json:"state"`
	// Answer is the final answer when State is DONE.
	Answer string `json:"answer,omitempty"`
	// Diagnostic explains any other terminal state.
	Diagnostic string          `json:"diagnostic,omitempty"`
	Steps      int             `json:"steps"`
	Messages   []model.Message `json:"-"`
}

// Text returns the answer, or the diagnostic when there is none.
func (o *Outcome) Text() string {
	if o.State == StateDone {
		return o.Answer
	}
	return o.Diagnostic
}

// run carries the mutable state of one Run.
type run struct {
	id     string
	cfg    RunConfig
	conv   *memory.Conversation
	state  State
	step   int
	logger logging.Logger
}

func (r *run) outcome(text string) *Outcome {
	o := &Outcome{
		RunID:    r.id,
		State:    r.state,
		Steps:    r.step,
		Messages: r.conv.Messages(),
	}
	if r.state == StateDone {
		o.Answer = text
	} else {
		o.Diagnostic = text
	}
	return o
}

// Run executes the loop for prompt. A non-nil error is returned only for
// the FAILED state; EXHAUSTED and INCONCLUSIVE are normal outcomes.
func (a *Agent) Run(ctx context.Context, prompt string, cfg RunConfig) (*Outcome, error) {
	cfg = RunConfig{MaxSteps: a.maxSteps, AgentID: a.agentID}.Merge(cfg)

	r := &run{
		id:    uuid.NewString(),
		cfg:   cfg,
		conv:  memory.NewConversation(),
		state: StateInit,
	}
	r.logger = logging.WithRun(a.logger, r.id)
	start := time.Now()

	text, err := a.loop(ctx, r, prompt)

	if m, ok := r.logger.(logging.MetricsLogger); ok {
		m.LogRun(r.state.String(), r.step, time.Since(start), err)
	}
	return r.outcome(text), err
}

func (a *Agent) loop(ctx context.Context, r *run, prompt string) (string, error) {
	if err := CheckAgentType(r.cfg.AgentType); err != nil {
		return a.fail(r, err)
	}
	if r.cfg.MaxSteps <= 0 {
		return a.fail(r, fmt.Errorf("max steps must be positive, got %d", r.cfg.MaxSteps))
	}

	r.conv.AddSystemPrompt(a.systemPrompt)
	r.conv.AddUserInput(prompt)
	r.logger.Info("agent.run.start", "agent_id", r.cfg.AgentID, "max_steps", r.cfg.MaxSteps, "prompt", logging.Preview(prompt, 200))

	for r.state = StateStep; r.step < r.cfg.MaxSteps; {
		if err := ctx.Err(); err != nil {
			return a.fail(r, err)
		}
		r.step++

		res, err := a.caller.Call(ctx, model.CallRequest{
			Messages: r.conv.Messages(),
			AgentID:  r.cfg.AgentID,
			Override: r.cfg.Override,
			Tools:    a.tools,
		})
		if err != nil {
			return a.fail(r, err)
		}

		next, text, err := a.handle(ctx, r, res)
		if err != nil {
			return a.fail(r, err)
		}
		r.state = next
		if r.state.Terminal() {
			return text, nil
		}
	}

	r.state = StateExhausted
	diag := fmt.Sprintf("Max steps (%d) reached without a final answer.", r.cfg.MaxSteps)
	r.logger.Warn("agent.run.exhausted", "steps", r.step, "max_steps", r.cfg.MaxSteps)
	return diag, nil
}

// handle applies one model result and returns the next state.
func (a *Agent) handle(ctx context.Context, r *run, res model.Result) (State, string, error) {
	switch v := res.(type) {
	case model.ToolCallResult:
		if len(v.ToolCalls) > 0 {
			return a.dispatchTurn(ctx, r, v)
		}
		return a.handleText(ctx, r, v.Content)
	case *model.ToolCallResult:
		if v != nil {
			return a.handle(ctx, r, *v)
		}
	case model.TextResult:
		return a.handleText(ctx, r, v.Text)
	case *model.TextResult:
		if v != nil {
			return a.handleText(ctx, r, v.Text)
		}
	}

	r.conv.AddModelStep(res)
	r.logger.Warn("agent.run.inconclusive", "step", r.step, "result", fmt.Sprintf("%T", res))
	return StateInconclusive, fmt.Sprintf("Model returned no usable output at step %d.", r.step), nil
}

func (a *Agent) handleText(ctx context.Context, r *run, text string) (State, string, error) {
	if strings.TrimSpace(text) == "" {
		r.conv.AddModelStep(model.TextResult{Text: text})
		r.logger.Warn("agent.step.empty", "step", r.step)
		return StateStep, "", nil
	}

	if answer, ok := ParseFinalAnswer(text); ok {
		r.conv.AddModelStep(model.TextResult{Text: text})
		r.logger.Info("agent.run.done", "steps", r.step, "answer", logging.Preview(answer, 200))
		return StateDone, answer, nil
	}

	if a.textActions {
		if name, input, ok := parseTextAction(text); ok {
			raw, err := json.Marshal(decodeArguments(input))
			if err != nil {
				return StateFailed, "", err
			}
			call := model.NewToolCall("call_"+uuid.NewString(), name, string(raw))
			return a.dispatchTurn(ctx, r, model.ToolCallResult{Content: text, ToolCalls: []model.ToolCall{call}})
		}
	}

	r.conv.AddModelStep(model.TextResult{Text: text})
	r.logger.Debug("agent.step", "step", r.step, "kind", "reasoning")
	return StateStep, "", nil
}

// dispatchTurn records the assistant turn then executes its tool calls in
// order, appending one observation per call.
func (a *Agent) dispatchTurn(ctx context.Context, r *run, res model.ToolCallResult) (State, string, error) {
	r.conv.AddModelStep(res)
	r.state = StateToolDispatch
	r.logger.Debug("agent.step", "step", r.step, "kind", "tool_calls", "count", len(res.ToolCalls))

	for _, call := range res.ToolCalls {
		obs, err := a.executeToolCall(ctx, r.logger, call)
		if err != nil {
			return StateFailed, "", err
		}
		if err := r.conv.AddToolStep(call.ID, obs); err != nil {
			return StateFailed, "", err
		}
	}
	return StateStep, "", nil
}

func (a *Agent) fail(r *run, err error) (string, error) {
	r.state = StateFailed
	r.logger.Error("agent.run.failed", "step", r.step, "error", err.Error())
	return fmt.Sprintf("Agent run failed: %v", err), err
}
