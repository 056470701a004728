package middleware

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/aretw0/agentcore/pkg/ports"
)

// Mask replaces the value of every masked field.
const Mask = "***"

type piiMiddleware struct {
	next     ports.KVStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks, in JSON object values, the fields whose
// key matches one of the patterns. Values that are not JSON objects are stored unchanged.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.KVStore) ports.KVStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Set(ctx context.Context, key, value string) error {
	var doc map[string]any
	if err := json.Unmarshal([]byte(value), &doc); err != nil || doc == nil {
		return m.next.Set(ctx, key, value)
	}
	if !maskMap(doc, m.patterns) {
		return m.next.Set(ctx, key, value)
	}
	masked, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return m.next.Set(ctx, key, string(masked))
}

func (m *piiMiddleware) Get(ctx context.Context, key string) (string, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Ping(ctx context.Context) error {
	return m.next.Ping(ctx)
}

// maskMap masks matching keys in place, recursing into nested objects and arrays.
// It reports whether anything was masked.
func maskMap(m map[string]any, patterns []*regexp.Regexp) bool {
	masked := false
	for k, v := range m {
		if matchesAny(k, patterns) {
			m[k] = Mask
			masked = true
			continue
		}
		if maskValue(v, patterns) {
			masked = true
		}
	}
	return masked
}

func maskValue(v any, patterns []*regexp.Regexp) bool {
	switch t := v.(type) {
	case map[string]any:
		return maskMap(t, patterns)
	case []any:
		masked := false
		for _, item := range t {
			if maskValue(item, patterns) {
				masked = true
			}
		}
		return masked
	}
	return false
}

func matchesAny(k string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(k) {
			return true
		}
	}
	return false
}
