// Package roster loads read-only snapshots of watched entities from TOML files.
//
// A credentials or documents file looks like:
//
//	[[entity]]
//	id = "prov-1"
//	name = "Dr. Ana Patel"
//
//	  [[entity.field]]
//	  id = "state-license"
//	  type = "license"
//	  label = "State dental license"
//	  expiration_date = "2026-11-30"
//	  status = "active"
//
// and a kiosks file:
//
//	[[kiosk]]
//	id = "front-desk"
//	name = "Front desk"
//	location = "Lobby"
//	last_seen = 2026-10-18T08:55:00Z
//
// Files are re-read on every snapshot so edits are picked up by the next scan.
package roster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/colors"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidRoster is returned when a roster file is not valid TOML.
var ErrInvalidRoster = errors.New("invalid roster")

type fieldRecord struct {
	ID    string `toml:"id"`
	Type  string `toml:"type"`
	Label string `toml:"label"`
	// ExpirationDate accepts a quoted string or a bare TOML date.
	ExpirationDate any    `toml:"expiration_date"`
	Status         string `toml:"status"`
}

type entityRecord struct {
	ID     string        `toml:"id"`
	Name   string        `toml:"name"`
	Fields []fieldRecord `toml:"field"`
}

type entityFile struct {
	Entities []entityRecord `toml:"entity"`
}

type kioskRecord struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Location string `toml:"location"`
	LastSeen any    `toml:"last_seen"`
}

type kioskFile struct {
	Kiosks []kioskRecord `toml:"kiosk"`
}

// Skipped describes a record left out of a snapshot. FieldID is empty when
// the whole entity or kiosk was skipped.
type Skipped struct {
	EntityID string
	FieldID  string
	Reason   string
}

func (s Skipped) String() string {
	switch {
	case s.EntityID == "":
		return s.Reason
	case s.FieldID == "":
		return fmt.Sprintf("%s: %s", s.EntityID, s.Reason)
	default:
		return fmt.Sprintf("%s/%s: %s", s.EntityID, s.FieldID, s.Reason)
	}
}

// dateString renders a decoded expiration date as text. Values the watcher
// cannot parse come through as written and are reported there.
func dateString(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case toml.LocalDate:
		return d.String()
	case toml.LocalDateTime:
		return d.String()
	case time.Time:
		return d.Format(time.RFC3339)
	default:
		return fmt.Sprint(d)
	}
}

// lastSeen converts a decoded last_seen value. Local date-times are read as UTC.
func lastSeen(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return d, nil
	case toml.LocalDateTime:
		return d.AsTime(time.UTC), nil
	case toml.LocalDate:
		return d.AsTime(time.UTC), nil
	case string:
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, fmt.Errorf("last_seen %q is not an RFC 3339 time", d)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("last_seen has unsupported type %T", v)
	}
}

// ParseEntities decodes entity TOML. Expiration dates are kept as written;
// the watcher decides what a malformed date means. Entities without an id or
// with a repeated id, and fields without an id or with an unknown status, are
// skipped and returned in skipped. Only a file that is not valid TOML fails.
func ParseEntities(data []byte) (entities []domain.WatchedEntity, skipped []Skipped, err error) {
	var f entityFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	entities = make([]domain.WatchedEntity, 0, len(f.Entities))
	seen := make(map[string]bool, len(f.Entities))
	for i, rec := range f.Entities {
		if strings.TrimSpace(rec.ID) == "" {
			skipped = append(skipped, Skipped{Reason: fmt.Sprintf("entity %d has no id", i)})
			continue
		}
		if seen[rec.ID] {
			skipped = append(skipped, Skipped{EntityID: rec.ID, Reason: "duplicate entity id"})
			continue
		}
		seen[rec.ID] = true

		entity := domain.WatchedEntity{ID: rec.ID, Name: rec.Name, Fields: make([]domain.ExpiringField, 0, len(rec.Fields))}
		for j, fr := range rec.Fields {
			if strings.TrimSpace(fr.ID) == "" {
				skipped = append(skipped, Skipped{EntityID: rec.ID, Reason: fmt.Sprintf("field %d has no id", j)})
				continue
			}
			status := domain.ExpirationActive
			if fr.Status != "" {
				status = domain.ExpirationStatus(strings.ToLower(fr.Status))
				if !status.IsValid() {
					skipped = append(skipped, Skipped{EntityID: rec.ID, FieldID: fr.ID, Reason: fmt.Sprintf("unknown status %q", fr.Status)})
					continue
				}
			}
			entity.Fields = append(entity.Fields, domain.ExpiringField{
				ID:             fr.ID,
				Type:           fr.Type,
				Label:          fr.Label,
				ExpirationDate: dateString(fr.ExpirationDate),
				Status:         status,
			})
		}
		entities = append(entities, entity)
	}
	return entities, skipped, nil
}

// ParseKiosks decodes kiosk TOML. A missing last_seen means the kiosk never
// reported. Kiosks without an id or with an unreadable last_seen are skipped.
func ParseKiosks(data []byte) (kiosks []domain.Kiosk, skipped []Skipped, err error) {
	var f kioskFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	kiosks = make([]domain.Kiosk, 0, len(f.Kiosks))
	for i, rec := range f.Kiosks {
		if strings.TrimSpace(rec.ID) == "" {
			skipped = append(skipped, Skipped{Reason: fmt.Sprintf("kiosk %d has no id", i)})
			continue
		}
		seenAt, err := lastSeen(rec.LastSeen)
		if err != nil {
			skipped = append(skipped, Skipped{EntityID: rec.ID, Reason: err.Error()})
			continue
		}
		kiosks = append(kiosks, domain.Kiosk{ID: rec.ID, Name: rec.Name, Location: rec.Location, LastSeen: seenAt})
	}
	return kiosks, skipped, nil
}

func reportSkipped(path string, skipped []Skipped) {
	for _, s := range skipped {
		colors.Warning(fmt.Sprintf("roster %s: skipped %s", path, s))
	}
}

// EntityFile is an EntitySource backed by a TOML file. A missing file is an
// empty roster.
type EntityFile struct {
	Path string
}

// Entities reads and parses the file.
func (f EntityFile) Entities(ctx context.Context) ([]domain.WatchedEntity, error) {
	data, err := readRoster(ctx, f.Path)
	if err != nil || data == nil {
		return nil, err
	}
	entities, skipped, err := ParseEntities(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	reportSkipped(f.Path, skipped)
	return entities, nil
}

// KioskFile is a KioskSource backed by a TOML file. A missing file is an
// empty roster.
type KioskFile struct {
	Path string
}

// Kiosks reads and parses the file.
func (f KioskFile) Kiosks(ctx context.Context) ([]domain.Kiosk, error) {
	data, err := readRoster(ctx, f.Path)
	if err != nil || data == nil {
		return nil, err
	}
	kiosks, skipped, err := ParseKiosks(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	reportSkipped(f.Path, skipped)
	return kiosks, nil
}

func readRoster(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return data, nil
}
