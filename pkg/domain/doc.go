/*
Package domain contains the core data model shared by the workflow interpreter, the tool
client and the tool providers.

It is kept free of I/O and transport concerns. Every failure that crosses a component
boundary is represented here as data rather than as a Go error.

# Key Entities

  - WorkflowRequest: the caller's task text plus free-form parameters.
  - WorkflowResult: one of the single-step, multi-step or error shapes returned to the caller.
  - ToolInvocation: a call to a named tool on a named provider.
  - ToolResult: a tagged Ok(payload) | Err(kind, message) value.
  - ToolDescriptor: a provider-owned tool definition used for discovery.
*/
package domain
