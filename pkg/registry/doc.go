// Package registry holds the immutable name-to-tool table a provider dispatches on.
package registry
