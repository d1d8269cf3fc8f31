package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/practice-alerts/internal/colors"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/format"
	"github.com/cristianoliveira/practice-alerts/internal/search"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

// maxReplayLine bounds one JSON action.
const maxReplayLine = 1 << 20

// ReplayBus is what replay dispatches into.
type ReplayBus interface {
	DispatchRaw(ctx context.Context, data []byte) error
	State() store.State
}

// ReplayOptions holds all parameters for replaying an action log.
type ReplayOptions struct {
	Bus       ReplayBus
	Input     io.Reader
	Formatter format.Formatter
	Filter    domain.Filter
	// Search narrows the printed feed with SearchProvider (substring by default).
	Search         string
	SearchProvider search.Provider
	// Sort reorders the feed; a zero value keeps newest-first feed order.
	Sort        domain.SortOptions
	UnreadFirst bool
	Output      io.Writer
	// Strict stops at the first rejected action.
	Strict bool
}

// ReplayResult counts what happened to the input lines.
type ReplayResult struct {
	Lines int
	// Accepted counts lines the bus took; malformed actions are dropped there.
	Accepted int
	Rejected int
}

// ReplayUseCase dispatches JSON-lines actions in order and prints the final feed.
type ReplayUseCase struct{}

// NewReplayUseCase creates a replay use-case.
func NewReplayUseCase() *ReplayUseCase {
	return &ReplayUseCase{}
}

// Execute reads one action per line. Blank lines and lines starting with '#'
// are skipped. Rejected actions are reported and skipped unless Strict is set.
func (u *ReplayUseCase) Execute(ctx context.Context, opts ReplayOptions) (ReplayResult, error) {
	var result ReplayResult
	if opts.Bus == nil || opts.Input == nil {
		return result, fmt.Errorf("replay: bus and input dependencies cannot be nil")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Formatter == nil {
		opts.Formatter = format.NewTableFormatter()
	}

	scanner := bufio.NewScanner(opts.Input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReplayLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		result.Lines++
		if err := opts.Bus.DispatchRaw(ctx, line); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Rejected++
			if opts.Strict {
				return result, fmt.Errorf("replay: line %d: %w", lineNo, err)
			}
			colors.Warning(fmt.Sprintf("replay: line %d: %v", lineNo, err))
			continue
		}
		result.Accepted++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("replay: read input: %w", err)
	}

	notifs := domain.FilterNotifications(opts.Bus.State().Notifications, opts.Filter)
	notifs = filterFeed(notifs, opts.SearchProvider, opts.Search)
	notifs = arrange(notifs, opts.Sort, opts.UnreadFirst)
	if err := opts.Formatter.FormatNotifications(notifs, opts.Output); err != nil {
		return result, fmt.Errorf("replay: write output: %w", err)
	}
	return result, nil
}
