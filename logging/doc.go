// Package logging provides a minimal logging interface and adapters for the
// deep research agent.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the registry, dispatcher, model router and agent loop use
// for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - AgentLogger with run scoped attributes and domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	registry := tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
