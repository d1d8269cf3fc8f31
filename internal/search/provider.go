// Package search matches notifications against free-text queries.
// Providers share a field list and differ only in how a query is matched.
package search

import (
	"fmt"
	"sort"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// Provider matches notifications against a query.
type Provider interface {
	// Match returns true if the notification matches the search query.
	// An empty query matches everything.
	Match(n domain.Notification, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Searchable fields.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldBody     = "body"
	FieldKind     = "kind"
	FieldPriority = "priority"
	FieldStatus   = "status"
	FieldMetadata = "metadata"
)

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // If true, searches ignore case sensitivity
	Fields          []string // Fields to search in (default: title, body, metadata)
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: false,
		Fields:          []string{FieldTitle, FieldBody, FieldMetadata},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValues returns the non-empty values of field. Metadata values are
// returned in key order.
func fieldValues(n domain.Notification, field string) []string {
	var values []string
	switch field {
	case FieldID:
		values = []string{n.ID}
	case FieldTitle:
		values = []string{n.Title}
	case FieldBody:
		values = []string{n.Body}
	case FieldKind:
		values = []string{n.Kind.String()}
	case FieldPriority:
		values = []string{n.Priority.String()}
	case FieldStatus:
		values = []string{n.Status.String()}
	case FieldMetadata:
		keys := make([]string, 0, len(n.Metadata))
		for k := range n.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			values = append(values, n.Metadata[k])
		}
	}
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Mode names a provider.
type Mode string

const (
	ModeSubstring Mode = "substring"
	ModeRegex     Mode = "regex"
	ModeToken     Mode = "token"
)

// New returns the provider for mode.
func New(mode Mode, opts ...Option) (Provider, error) {
	switch mode {
	case ModeSubstring, "":
		return NewSubstringProvider(opts...), nil
	case ModeRegex:
		return NewRegexProvider(opts...), nil
	case ModeToken:
		return NewTokenProvider(opts...), nil
	default:
		return nil, fmt.Errorf("unknown search mode %q (expected substring, regex or token)", mode)
	}
}

// Filter returns the notifications matching query, keeping order.
func Filter(p Provider, notifs []domain.Notification, query string) []domain.Notification {
	if p == nil || query == "" {
		return notifs
	}
	out := make([]domain.Notification, 0, len(notifs))
	for _, n := range notifs {
		if p.Match(n, query) {
			out = append(out, n)
		}
	}
	return out
}
