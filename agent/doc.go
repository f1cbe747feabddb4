// Package agent implements the ReAct controller: a bounded loop that
// alternates model calls and tool dispatch until the model commits to a
// final answer or the step budget runs out.
//
// Execution Model:
//   - Each Run owns a fresh memory.Conversation and step counter
//   - A step blocks on the model call, then dispatches requested tools
//     sequentially in the order the model listed them
//   - Every run ends in exactly one terminal State (DONE, EXHAUSTED,
//     INCONCLUSIVE or FAILED)
//
// An Agent holds no per-run state, so one instance may serve concurrent runs.
package agent
