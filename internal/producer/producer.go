// Package producer builds the one-shot notifications raised by dashboard
// actions and dispatches them.
package producer

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/bus"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/logging"
	"github.com/cristianoliveira/practice-alerts/internal/store"
	"github.com/google/uuid"
)

// Option configures a Producer.
type Option func(*Producer)

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Producer) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Producer) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Producer) {
		if l != nil {
			p.logger = l
		}
	}
}

// Producer turns dashboard events into notifications.
type Producer struct {
	dispatcher bus.Dispatcher
	now        func() time.Time
	newID      func() string
	logger     logging.Logger
}

// New creates a producer dispatching to d.
func New(d bus.Dispatcher, opts ...Option) *Producer {
	p := &Producer{
		dispatcher: d,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     logging.GetGlobal(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "producer")
	return p
}

// Event is the content of a notification before an id and timestamp are assigned.
type Event struct {
	Kind     domain.Kind
	Priority domain.Priority
	Status   domain.Status
	Title    string
	Body     string
	Metadata map[string]string
}

// Emit builds a complete unread notification from ev and dispatches it.
// The returned notification is what was added.
func (p *Producer) Emit(ctx context.Context, ev Event) (domain.Notification, error) {
	if ev.Priority == "" {
		ev.Priority = domain.PriorityMedium
	}
	n := domain.Notification{
		ID:        p.newID(),
		Kind:      ev.Kind,
		Title:     ev.Title,
		Body:      ev.Body,
		CreatedAt: p.now(),
		Priority:  ev.Priority,
		Status:    ev.Status,
		Metadata:  maps.Clone(ev.Metadata),
	}
	if err := p.dispatcher.Dispatch(ctx, store.Add{Notification: n}); err != nil {
		return domain.Notification{}, fmt.Errorf("emit %q: %w", ev.Title, err)
	}
	p.logger.Debug("notification emitted", "id", n.ID, "kind", n.Kind.String(), "title", n.Title)
	return n, nil
}

// BonusAdded announces a bonus recorded for a staff member.
func (p *Producer) BonusAdded(ctx context.Context, staffID, staffName string, amount float64) (domain.Notification, error) {
	return p.Emit(ctx, Event{
		Kind:     domain.KindMessage,
		Priority: domain.PriorityLow,
		Title:    "Bonus added",
		Body:     fmt.Sprintf("A bonus of $%.2f was added for %s", amount, staffName),
		Metadata: map[string]string{domain.MetaEntityID: staffID},
	})
}

// StaffAssigned announces a staff member assigned to a location or team.
func (p *Producer) StaffAssigned(ctx context.Context, staffID, staffName, assignment string) (domain.Notification, error) {
	return p.Emit(ctx, Event{
		Kind:     domain.KindTask,
		Title:    "Staff assigned",
		Body:     fmt.Sprintf("%s was assigned to %s", staffName, assignment),
		Metadata: map[string]string{domain.MetaEntityID: staffID, "assignment": assignment},
	})
}

// ReportExported announces a finished report export.
func (p *Producer) ReportExported(ctx context.Context, report, format string) (domain.Notification, error) {
	return p.Emit(ctx, Event{
		Kind:     domain.KindMessage,
		Priority: domain.PriorityLow,
		Title:    "Report exported",
		Body:     fmt.Sprintf("%s was exported as %s", report, format),
		Metadata: map[string]string{"report": report, "format": format},
	})
}

// CourseAssigned announces a learning course assigned to a staff member.
func (p *Producer) CourseAssigned(ctx context.Context, staffID, staffName, course string, due time.Time) (domain.Notification, error) {
	body := fmt.Sprintf("%s was assigned %q", staffName, course)
	if !due.IsZero() {
		body += fmt.Sprintf(", due %s", due.Format("Jan 2, 2006"))
	}
	return p.Emit(ctx, Event{
		Kind:     domain.KindTask,
		Title:    "Course assigned",
		Body:     body,
		Metadata: map[string]string{domain.MetaEntityID: staffID, "course": course},
	})
}

// ClaimUpdated announces an insurance claim status change. Denied claims are high priority.
func (p *Producer) ClaimUpdated(ctx context.Context, claimID, patient, claimStatus string) (domain.Notification, error) {
	priority := domain.PriorityMedium
	if claimStatus == "denied" {
		priority = domain.PriorityHigh
	}
	return p.Emit(ctx, Event{
		Kind:     domain.KindAlert,
		Priority: priority,
		Title:    "Insurance claim updated",
		Body:     fmt.Sprintf("Claim %s for %s is now %s", claimID, patient, claimStatus),
		Metadata: map[string]string{domain.MetaEntityID: claimID, "claimStatus": claimStatus},
	})
}

// VendorOrderPlaced announces a supply order sent to a vendor.
func (p *Producer) VendorOrderPlaced(ctx context.Context, orderID, vendor string, total float64) (domain.Notification, error) {
	return p.Emit(ctx, Event{
		Kind:     domain.KindMessage,
		Priority: domain.PriorityLow,
		Title:    "Vendor order placed",
		Body:     fmt.Sprintf("Order %s placed with %s ($%.2f)", orderID, vendor, total),
		Metadata: map[string]string{domain.MetaEntityID: orderID, "vendor": vendor},
	})
}
