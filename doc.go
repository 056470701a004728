/*
Package agentcore is an orchestration layer that turns a free-text task into a sequence of tool calls and reasoning requests, and returns an ordered, structured result.

# Concept

A caller sends a workflow request: a "task" string plus free-form parameters. The Workflow Interpreter matches the task against an ordered routing table (case-insensitive keywords, first match wins), selects a step template and runs its steps strictly in sequence. Each step is a tool call on a remote provider, a reasoning call whose prompt interpolates an earlier result, or an extraction that feeds a value from one result into the next call.

Failures are data. A provider that is down, a timeout or a backend error becomes an {error} value recorded as that step's result, so the rest of the chain still runs. Only a failed extraction stops a workflow early.

# Key Features

  - Ordered routing: overlapping keywords are resolved by table priority, printed by `agentcore routes`.
  - Uniform tool protocol: providers answer tools/list and tools/call over JSON POST, or over MCP.
  - Shipped providers: AWS (S3, Glue, Bedrock), custom (weather, Redis or in-memory storage) and SQL databases.
  - Pluggable reasoning: Bedrock Titan or Gemini, with a hard cap on the token budget.
  - Observability: slog with request ids, Prometheus metrics fed by interpreter lifecycle hooks.

# Usage

Run the providers and the front door, then post a workflow:

	agentcore provider custom --listen :8081
	agentcore serve --config agentcore.yaml

	curl -s localhost:8000/ -d '{"method":"workflow/execute","params":{"task":"weather analysis","city":"Austin"}}'

Or execute one workflow without a server:

	agentcore exec --task "list s3 buckets"

Embedding the interpreter in Go:

	tools := client.New(map[string]string{"custom": "http://localhost:8081"})
	reasoner := reasoning.New(backend, reasoning.WithMaxTokens(200))
	in := workflow.New(tools, reasoner)

	result := in.ExecuteRaw(ctx, map[string]any{"task": "weather analysis", "city": "Austin"})
*/
package agentcore
