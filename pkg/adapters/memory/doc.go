// Package memory provides an in-process key-value store, used by the custom provider when no
// Redis address is configured and by tests.
package memory
