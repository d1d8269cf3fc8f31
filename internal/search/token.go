package search

import (
	"strings"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// TokenProvider splits the query on whitespace; every token must match at
// least one field. The tokens "read" and "unread" filter on read state, and
// a key:value token such as priority:high matches that field exactly.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match returns true if every token matches.
func (p *TokenProvider) Match(n domain.Notification, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	var readFilter, unreadFilter bool
	var text []string
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "read":
			readFilter = true
		case "unread":
			unreadFilter = true
		default:
			text = append(text, token)
		}
	}
	// Both together cancel out.
	if readFilter != unreadFilter {
		if readFilter && !n.Read {
			return false
		}
		if unreadFilter && n.Read {
			return false
		}
	}

	for _, token := range text {
		if !p.matchToken(n, token) {
			return false
		}
	}
	return true
}

func (p *TokenProvider) matchToken(n domain.Notification, token string) bool {
	if field, value, ok := strings.Cut(token, ":"); ok && value != "" {
		switch field {
		case FieldKind, FieldPriority, FieldStatus, FieldID:
			for _, v := range fieldValues(n, field) {
				if strings.EqualFold(v, value) {
					return true
				}
			}
			return false
		}
	}

	if p.opts.CaseInsensitive {
		token = strings.ToLower(token)
	}
	for _, field := range p.opts.Fields {
		for _, v := range fieldValues(n, field) {
			if p.opts.CaseInsensitive {
				v = strings.ToLower(v)
			}
			if strings.Contains(v, token) {
				return true
			}
		}
	}
	return false
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return string(ModeToken)
}
