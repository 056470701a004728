// Package redis provides a Redis-backed key-value store for the custom provider.
package redis
