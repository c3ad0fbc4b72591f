/*
Package observability provides tools for monitoring the simulator.

Metrics exposes Prometheus collectors fed by domain.LifecycleHooks, so any
Simulator (CLI, HTTP or MCP host) can be instrumented by merging Metrics.Hooks()
into its options. Logging hooks emit the same events through log/slog.
*/
package observability
