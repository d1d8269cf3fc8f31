package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var segmentSep = regexp.MustCompile(`[^a-z0-9]+`)

// Keys are matched per segment so "license_number" redacts but "licensed" does not.
var defaultSensitiveWords = []string{
	"secret", "password", "token", "key", "auth", "credential",
	"license", "ssn", "dob",
}

type redactor struct {
	words map[string]bool
}

func newRedactor() *redactor {
	words := make(map[string]bool, len(defaultSensitiveWords))
	for _, w := range defaultSensitiveWords {
		words[w] = true
	}
	return &redactor{words: words}
}

// redact returns a copy of the flattened key-value pairs with sensitive values replaced.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := make([]any, len(pairs))
	copy(out, pairs)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && r.isSensitive(key) {
			out[i+1] = redacted
		}
	}
	return out
}

func (r *redactor) isSensitive(key string) bool {
	for _, part := range segmentSep.Split(strings.ToLower(key), -1) {
		if r.words[part] {
			return true
		}
	}
	return false
}
