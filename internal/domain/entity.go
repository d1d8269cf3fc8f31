package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExpirationStatus is the date-driven state of a watched field.
// It only moves forward (active, expiring, expired) unless the
// expiration date is renewed.
type ExpirationStatus string

const (
	ExpirationActive   ExpirationStatus = "active"
	ExpirationExpiring ExpirationStatus = "expiring"
	ExpirationExpired  ExpirationStatus = "expired"
)

// IsValid checks if the expiration status is valid.
func (s ExpirationStatus) IsValid() bool {
	switch s {
	case ExpirationActive, ExpirationExpiring, ExpirationExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s ExpirationStatus) String() string {
	return string(s)
}

// Accepted date layouts for expiration dates, most specific first.
var expirationLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseExpirationDate parses an expiration date in one of the supported layouts.
// Date-only values are interpreted as the end of that day in UTC.
func ParseExpirationDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("expiration date cannot be empty")
	}
	for _, layout := range expirationLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" || layout == "01/02/2006" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid expiration date: %q", value)
}

// DeriveExpirationStatus computes the status of a field expiring at expiresAt.
func DeriveExpirationStatus(expiresAt, now time.Time, lookahead time.Duration) ExpirationStatus {
	switch {
	case expiresAt.Before(now):
		return ExpirationExpired
	case !expiresAt.After(now.Add(lookahead)):
		return ExpirationExpiring
	default:
		return ExpirationActive
	}
}

// ExpiringField is one dated item on a watched entity, e.g. a state license
// on a provider or the renewal date of a document.
type ExpiringField struct {
	ID             string
	Type           string
	Label          string
	ExpirationDate string
	Status         ExpirationStatus
}

// WatchedEntity is a read-only view of something with expiring fields.
type WatchedEntity struct {
	ID     string
	Name   string
	Fields []ExpiringField
}

// Kiosk is a check-in device that reports a heartbeat.
type Kiosk struct {
	ID       string
	Name     string
	Location string
	LastSeen time.Time
}
