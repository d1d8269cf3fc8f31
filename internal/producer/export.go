package producer

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// ExportFunc performs an export. It should return promptly when ctx is done.
type ExportFunc func(ctx context.Context) error

// ExportReportAsync runs export on a goroutine and dispatches the outcome when
// it finishes: ReportExported on success, a high priority alert on failure.
// If ctx is done first nothing is dispatched. The channel receives exactly one
// value and is then closed.
func (p *Producer) ExportReportAsync(ctx context.Context, report, format string, export ExportFunc) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		err := export(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			p.logger.Info("report export cancelled", "report", report)
			result <- ctxErr
			return
		}
		if err != nil {
			p.logger.Warn("report export failed", "report", report, "error", err)
			_, emitErr := p.Emit(ctx, Event{
				Kind:     domain.KindAlert,
				Priority: domain.PriorityHigh,
				Title:    "Report export failed",
				Body:     fmt.Sprintf("%s could not be exported as %s: %v", report, format, err),
				Metadata: map[string]string{"report": report, "format": format},
			})
			if emitErr != nil {
				p.logger.Error("dispatch export failure", "error", emitErr)
			}
			result <- err
			return
		}
		_, err = p.ReportExported(ctx, report, format)
		result <- err
	}()
	return result
}
