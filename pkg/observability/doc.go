/*
Package observability provides Prometheus metrics for the orchestrator.

Workflow and step metrics are recorded through interpreter lifecycle hooks; tool call
latency is recorded by a decorator around the tool invoker; reasoning latency by an
observer on the reasoning client. All metrics live in a private registry served by
Handler.
*/
package observability
