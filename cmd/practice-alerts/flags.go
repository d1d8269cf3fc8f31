package main

import (
	"fmt"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/config"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/format"
	"github.com/cristianoliveira/practice-alerts/internal/roster"
	"github.com/cristianoliveira/practice-alerts/internal/search"
	"github.com/cristianoliveira/practice-alerts/internal/session"
	"github.com/spf13/cobra"
)

// filterFlags are the feed filters shared by commands that print the feed.
type filterFlags struct {
	kind       string
	priority   string
	status     string
	entity     string
	read       string
	search     string
	searchMode string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "", "Filter by kind (review, task, message, alert)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Filter by priority (high, medium, low)")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by status (accepted, pending_approval, declined_rejected)")
	cmd.Flags().StringVar(&f.entity, "entity", "", "Filter by entity id")
	cmd.Flags().StringVar(&f.read, "read-filter", "", "Filter by read state (read, unread)")
	cmd.Flags().StringVar(&f.search, "search", "", "Only show notifications matching this text")
	cmd.Flags().StringVar(&f.searchMode, "search-mode", string(search.ModeSubstring), "How --search matches: substring, regex or token")
}

// provider returns the search provider for --search-mode. Searches ignore case.
func (f *filterFlags) provider() (search.Provider, error) {
	p, err := search.New(search.Mode(f.searchMode), search.WithCaseInsensitive(true))
	if err != nil {
		return nil, err
	}
	if rp, ok := p.(*search.RegexProvider); ok && f.search != "" {
		if err := rp.Validate(f.search); err != nil {
			return nil, fmt.Errorf("invalid --search pattern: %w", err)
		}
	}
	return p, nil
}

func (f *filterFlags) filter() (domain.Filter, error) {
	return domain.FilterOptions{
		Kind:       f.kind,
		Priority:   f.priority,
		Status:     f.status,
		EntityID:   f.entity,
		ReadFilter: f.read,
	}.ToFilter()
}

// formatterFor resolves --format and --template. A template implies the
// badge format; an empty format falls back to list_format.
func formatterFor(name, template string) (format.Formatter, error) {
	if template != "" {
		if name != "" && name != string(format.FormatterTypeBadge) {
			return nil, fmt.Errorf("--template only applies to the badge format")
		}
		return format.NewBadgeFormatter(template)
	}
	if name == "" {
		name = config.Get("list_format", string(format.FormatterTypeTable))
	}
	switch t := format.FormatterType(name); t {
	case format.FormatterTypeTable, format.FormatterTypeCompact, format.FormatterTypeJSON, format.FormatterTypeBadge:
		return format.NewFormatter(t), nil
	default:
		return nil, fmt.Errorf("invalid format %q (expected table, json, compact or badge)", name)
	}
}

// outputFlags select how the feed is printed.
type outputFlags struct {
	format      string
	template    string
	sortBy      string
	order       string
	unreadFirst bool
	groupBy     string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: table, json, compact or badge (default from config)")
	cmd.Flags().StringVar(&f.template, "template", "", "Badge preset (compact, detailed, count-only, priorities, reviews, json) or a {{variable}} template")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "Sort by created, priority, kind, status, title or read_status (default: feed order)")
	cmd.Flags().StringVar(&f.order, "order", string(domain.SortOrderDesc), "Sort order: asc or desc")
	cmd.Flags().BoolVar(&f.unreadFirst, "unread-first", false, "List unread notifications before read ones")
	cmd.Flags().StringVar(&f.groupBy, "group-by", "", "Group the table or compact output by kind, priority, status or entity")
}

// formatter resolves the output format and wraps it for --group-by.
func (f *outputFlags) formatter() (format.Formatter, error) {
	formatter, err := formatterFor(f.format, f.template)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseGroupByMode(f.groupBy)
	if err != nil {
		return nil, err
	}
	if mode == domain.GroupByNone {
		return formatter, nil
	}
	switch formatter.(type) {
	case *format.TableFormatter, format.CompactFormatter:
		return format.NewGroupedFormatter(formatter, mode), nil
	default:
		return nil, fmt.Errorf("--group-by only applies to the table and compact formats")
	}
}

// sortOptions parses --sort and --order. An empty --sort keeps feed order.
func (f *outputFlags) sortOptions() (domain.SortOptions, error) {
	if f.sortBy == "" {
		return domain.SortOptions{}, nil
	}
	field, err := domain.ParseSortByField(f.sortBy)
	if err != nil {
		return domain.SortOptions{}, err
	}
	order, err := domain.ParseSortOrder(f.order)
	if err != nil {
		return domain.SortOptions{}, err
	}
	return domain.SortOptions{Field: field, Order: order}, nil
}

// watchFlags override the roster files and watch durations from config.
type watchFlags struct {
	credentials string
	documents   string
	kiosks      string
	lookahead   time.Duration
	noHooks     bool
}

func (f *watchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.credentials, "credentials", "", "Credentials roster file (default from config)")
	cmd.Flags().StringVar(&f.documents, "documents", "", "Documents roster file (default from config)")
	cmd.Flags().StringVar(&f.kiosks, "kiosks", "", "Kiosks roster file (default from config)")
	cmd.Flags().DurationVar(&f.lookahead, "lookahead", 0, "Alert this long before a date expires (default from config)")
	cmd.Flags().BoolVar(&f.noHooks, "no-hooks", false, "Do not run hooks")
}

// options builds session options from config with the flags applied.
func (f *watchFlags) options() session.Options {
	opts := session.OptionsFromConfig()
	if f.credentials != "" {
		opts.Credentials = roster.EntityFile{Path: f.credentials}
	}
	if f.documents != "" {
		opts.Documents = roster.EntityFile{Path: f.documents}
	}
	if f.kiosks != "" {
		opts.Kiosks = roster.KioskFile{Path: f.kiosks}
	}
	if f.lookahead > 0 {
		opts.Lookahead = f.lookahead
	}
	if f.noHooks {
		opts.Hooks = nil
	}
	return opts
}
