// Package model defines the provider-agnostic abstractions used to call
// language models from the agent loop.
//
// Core goals:
//   - Normalize conversation turns and tool calls (Message, ToolCall)
//   - Represent a model outcome as a closed variant (TextResult | ToolCallResult)
//   - Resolve a Config by layering global, per-agent and per-call settings
//   - Validate provider and model against a Catalog before any network I/O
//   - Route to one Transport per Provider through a lookup table (Router)
//   - Facilitate lightweight mocking for tests (MockTransport)
//
// Providers (e.g. OpenAI, Azure OpenAI, Anthropic) implement Transport in
// sub-packages so higher layers remain decoupled from vendor SDKs.
package model
