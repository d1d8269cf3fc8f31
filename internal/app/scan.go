package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/practice-alerts/internal/bus"
	"github.com/cristianoliveira/practice-alerts/internal/colors"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/format"
	"github.com/cristianoliveira/practice-alerts/internal/search"
	"github.com/cristianoliveira/practice-alerts/internal/session"
	"github.com/cristianoliveira/practice-alerts/internal/watcher"
)

// ScanSession is the part of a session the scan use-case drives.
type ScanSession interface {
	ScanOnce(ctx context.Context) (session.ScanResult, error)
	Notifications() *bus.Handle
}

// ScanOptions holds all parameters for a one-shot scan.
type ScanOptions struct {
	Session   ScanSession
	Formatter format.Formatter
	Filter    domain.Filter
	// Search narrows the printed feed with SearchProvider (substring by default).
	Search         string
	SearchProvider search.Provider
	// Sort reorders the feed; a zero value keeps newest-first feed order.
	Sort        domain.SortOptions
	UnreadFirst bool
	Output      io.Writer
}

// ScanUseCase runs every watcher once and prints the resulting feed.
type ScanUseCase struct{}

// NewScanUseCase creates a scan use-case.
func NewScanUseCase() *ScanUseCase {
	return &ScanUseCase{}
}

// Execute scans once. Source failures and malformed dates are reported as
// warnings; the feed is printed either way.
func (u *ScanUseCase) Execute(ctx context.Context, opts ScanOptions) (session.ScanResult, error) {
	if opts.Session == nil {
		return session.ScanResult{}, fmt.Errorf("scan: session dependency cannot be nil")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Formatter == nil {
		opts.Formatter = format.NewTableFormatter()
	}

	result, err := opts.Session.ScanOnce(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if err != nil {
		colors.Warning(fmt.Sprintf("scan: %v", err))
	}
	reportMalformed(result.Credentials)
	reportMalformed(result.Documents)
	if result.Kiosks != nil {
		for id, ferr := range result.Kiosks.Failed {
			colors.Warning(fmt.Sprintf("scan: kiosk %s: %v", id, ferr))
		}
	}
	colors.Debug(fmt.Sprintf("scan raised %d alert(s)", result.Alerted()))

	notifs := filterFeed(opts.Session.Notifications().List(opts.Filter), opts.SearchProvider, opts.Search)
	notifs = arrange(notifs, opts.Sort, opts.UnreadFirst)
	if err := opts.Formatter.FormatNotifications(notifs, opts.Output); err != nil {
		return result, fmt.Errorf("scan: write output: %w", err)
	}
	return result, nil
}

func reportMalformed(r *watcher.ScanReport) {
	if r == nil {
		return
	}
	for _, m := range r.Malformed {
		colors.Warning(fmt.Sprintf("skipped %s: malformed expiration date %q", m.Key, m.Value))
	}
	for key, err := range r.Failed {
		colors.Warning(fmt.Sprintf("scan: %s: %v", key, err))
	}
}

// filterFeed applies a free-text search, keeping order.
func filterFeed(notifs []domain.Notification, provider search.Provider, query string) []domain.Notification {
	if query == "" {
		return notifs
	}
	if provider == nil {
		provider = search.NewSubstringProvider(search.WithCaseInsensitive(true))
	}
	return search.Filter(provider, notifs, query)
}

// arrange applies the requested ordering. With no sort field the feed order
// is kept, except that unreadFirst still floats unread entries up.
func arrange(notifs []domain.Notification, sortOpts domain.SortOptions, unreadFirst bool) []domain.Notification {
	if sortOpts.Field == "" && !unreadFirst {
		return notifs
	}
	if sortOpts.Field == "" {
		sortOpts = domain.DefaultSortOptions()
	}
	if unreadFirst {
		return domain.SortWithUnreadFirst(notifs, sortOpts)
	}
	return domain.SortNotifications(notifs, sortOpts)
}
