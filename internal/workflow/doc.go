// Package workflow classifies a workflow request by its task text and runs the matching
// step template against the tool client and the reasoning client.
//
// Routing is an ordered table of (Matcher, Binding) pairs; the first match wins. A binding
// either names a template or holds nested branches evaluated the same way. Steps run
// strictly in order; tool and reasoning failures are recorded as step results, and only a
// failed extraction stops a workflow early.
package workflow
