package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

// RescheduleRequested raises a review awaiting approval for moving an appointment.
func (p *Producer) RescheduleRequested(ctx context.Context, requestID, patient string, from, to time.Time) (domain.Notification, error) {
	return p.Emit(ctx, Event{
		Kind:     domain.KindReview,
		Priority: domain.PriorityHigh,
		Status:   domain.StatusPendingApproval,
		Title:    "Reschedule requested",
		Body: fmt.Sprintf("%s asks to move %s to %s", patient,
			from.Format("Jan 2 15:04"), to.Format("Jan 2 15:04")),
		Metadata: map[string]string{"requestId": requestID},
	})
}

// RescheduleDecided records the decision on a reschedule review and marks it read.
func (p *Producer) RescheduleDecided(ctx context.Context, notificationID string, approved bool) error {
	status := domain.StatusDeclinedRejected
	title := "Reschedule declined"
	if approved {
		status = domain.StatusAccepted
		title = "Reschedule accepted"
	}
	read := true
	priority := domain.PriorityLow
	err := p.dispatcher.Dispatch(ctx, store.Update{ID: notificationID, Patch: store.Patch{
		Title:    &title,
		Status:   &status,
		Priority: &priority,
		Read:     &read,
	}})
	if err != nil {
		return fmt.Errorf("decide reschedule %s: %w", notificationID, err)
	}
	p.logger.Debug("reschedule decided", "id", notificationID, "status", status.String())
	return nil
}
