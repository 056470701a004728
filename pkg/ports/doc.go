/*
Package ports defines the driven ports (interfaces) of the agent core.

These interfaces decouple the workflow interpreter from the concrete tool client,
reasoning backend and storage implementations, so each can be faked in tests or
replaced by another adapter.

# Key Interfaces

  - ToolInvoker: issues a tool invocation to a provider and returns the result as data.
  - Reasoner: issues a single text-generation request and returns text, never an error.
  - KVStore: the key-value storage behind the custom provider's store_data tool.
*/
package ports
