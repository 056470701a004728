// Package custom implements the custom tool provider: a weather lookup plus a small
// key-value store for workflow results.
package custom
