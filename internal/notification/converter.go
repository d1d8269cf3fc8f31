package notification

import (
	"fmt"
	"maps"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

// ToDomain converts a wire notification to a validated domain.Notification.
// A missing timestamp is filled with now.
func ToDomain(n Notification, now time.Time) (domain.Notification, error) {
	kind, err := domain.ParseKind(n.Kind)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("invalid kind: %w", err)
	}

	priority := domain.PriorityMedium
	if n.Priority != "" {
		if priority, err = domain.ParsePriority(n.Priority); err != nil {
			return domain.Notification{}, fmt.Errorf("invalid priority: %w", err)
		}
	}

	status, err := domain.ParseStatus(n.Status)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("invalid status: %w", err)
	}

	createdAt := now
	if n.CreatedAt != "" {
		if createdAt, err = time.Parse(time.RFC3339, n.CreatedAt); err != nil {
			return domain.Notification{}, fmt.Errorf("invalid timestamp format: %w", err)
		}
	}

	out := domain.Notification{
		ID:        n.ID,
		Kind:      kind,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: createdAt,
		Read:      n.Read,
		Priority:  priority,
		Status:    status,
		Metadata:  maps.Clone(n.Metadata),
	}
	if err := out.Validate(); err != nil {
		return domain.Notification{}, fmt.Errorf("validation failed: %w", err)
	}
	return out, nil
}

// FromDomain converts a domain.Notification to its wire form.
func FromDomain(n domain.Notification) Notification {
	out := Notification{
		ID:       n.ID,
		Kind:     n.Kind.String(),
		Title:    n.Title,
		Body:     n.Body,
		Read:     n.Read,
		Priority: n.Priority.String(),
		Status:   n.Status.String(),
		Metadata: maps.Clone(n.Metadata),
	}
	if !n.CreatedAt.IsZero() {
		out.CreatedAt = n.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// FromDomainSlice converts a feed to its wire form, keeping order.
func FromDomainSlice(notifs []domain.Notification) []Notification {
	out := make([]Notification, len(notifs))
	for i := range notifs {
		out[i] = FromDomain(notifs[i])
	}
	return out
}

// ToPatch converts wire updates into a store.Patch, validating enum values.
func ToPatch(u Updates) (store.Patch, error) {
	patch := store.Patch{
		Title:    u.Title,
		Body:     u.Body,
		Read:     u.Read,
		Metadata: maps.Clone(u.Metadata),
	}
	if u.Priority != nil {
		p, err := domain.ParsePriority(*u.Priority)
		if err != nil {
			return store.Patch{}, err
		}
		patch.Priority = &p
	}
	if u.Status != nil {
		s, err := domain.ParseStatus(*u.Status)
		if err != nil {
			return store.Patch{}, err
		}
		patch.Status = &s
	}
	return patch, nil
}

// FromPatch converts a store.Patch back to wire updates.
func FromPatch(p store.Patch) Updates {
	u := Updates{
		Title:    p.Title,
		Body:     p.Body,
		Read:     p.Read,
		Metadata: maps.Clone(p.Metadata),
	}
	if p.Priority != nil {
		s := p.Priority.String()
		u.Priority = &s
	}
	if p.Status != nil {
		s := p.Status.String()
		u.Status = &s
	}
	return u
}
