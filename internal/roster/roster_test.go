package roster

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/colors"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const credentialsTOML = `
[[entity]]
id = "prov-1"
name = "Dr. Ana Patel"

  [[entity.field]]
  id = "state-license"
  type = "license"
  label = "State dental license"
  expiration_date = "2026-11-30"

  [[entity.field]]
  id = "dea"
  type = "registration"
  label = "DEA registration"
  expiration_date = "not a date"
  status = "Expiring"

[[entity]]
id = "prov-2"
name = "Sam Chen, RDH"
`

func TestParseEntities(t *testing.T) {
	entities, skipped, err := ParseEntities([]byte(credentialsTOML))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, entities, 2)

	p := entities[0]
	assert.Equal(t, "prov-1", p.ID)
	assert.Equal(t, "Dr. Ana Patel", p.Name)
	require.Len(t, p.Fields, 2)
	assert.Equal(t, domain.ExpiringField{
		ID:             "state-license",
		Type:           "license",
		Label:          "State dental license",
		ExpirationDate: "2026-11-30",
		Status:         domain.ExpirationActive,
	}, p.Fields[0])
	assert.Equal(t, "not a date", p.Fields[1].ExpirationDate, "dates are passed through unparsed")
	assert.Equal(t, domain.ExpirationExpiring, p.Fields[1].Status)

	assert.Empty(t, entities[1].Fields)
}

func TestParseEntitiesSyntaxError(t *testing.T) {
	_, _, err := ParseEntities([]byte(`[[entity]`))
	require.ErrorIs(t, err, ErrInvalidRoster)
}

func TestParseEntitiesSkipsBadRecords(t *testing.T) {
	entities, skipped, err := ParseEntities([]byte(`
[[entity]]
id = "prov-1"
  [[entity.field]]
  id = "state-license"
  expiration_date = "2026-11-07"

[[entity]]
id = "prov-2"
  [[entity.field]]
  id = "dea"
  expiration_date = "2026-11-07"
  status = "renewed"
  [[entity.field]]
  type = "license"
  [[entity.field]]
  id = "cpr"
  expiration_date = 2026-12-01

[[entity]]
name = "no id"

[[entity]]
id = "prov-1"
`))
	require.NoError(t, err)

	require.Len(t, entities, 2)
	assert.Equal(t, "prov-1", entities[0].ID)
	require.Len(t, entities[0].Fields, 1)

	assert.Equal(t, "prov-2", entities[1].ID)
	require.Len(t, entities[1].Fields, 1, "only the cpr field survives")
	assert.Equal(t, "cpr", entities[1].Fields[0].ID)
	assert.Equal(t, "2026-12-01", entities[1].Fields[0].ExpirationDate, "bare TOML dates are accepted")

	assert.Equal(t, []Skipped{
		{EntityID: "prov-2", FieldID: "dea", Reason: `unknown status "renewed"`},
		{EntityID: "prov-2", Reason: "field 1 has no id"},
		{Reason: "entity 2 has no id"},
		{EntityID: "prov-1", Reason: "duplicate entity id"},
	}, skipped)
}

func TestParseKiosks(t *testing.T) {
	kiosks, skipped, err := ParseKiosks([]byte(`
[[kiosk]]
id = "front-desk"
name = "Front desk"
location = "Lobby"
last_seen = 2026-10-18T08:55:00Z

[[kiosk]]
id = "ortho"
`))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, kiosks, 2)
	assert.Equal(t, time.Date(2026, 10, 18, 8, 55, 0, 0, time.UTC), kiosks[0].LastSeen.UTC())
	assert.Equal(t, "Lobby", kiosks[0].Location)
	assert.True(t, kiosks[1].LastSeen.IsZero())

	kiosks, skipped, err = ParseKiosks([]byte(`
[[kiosk]]
name = "nameless"

[[kiosk]]
id = "ortho"
last_seen = "yesterday"

[[kiosk]]
id = "lab"
last_seen = 2026-10-18T08:00:00
`))
	require.NoError(t, err)
	require.Len(t, kiosks, 1)
	assert.Equal(t, time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC), kiosks[0].LastSeen)
	require.Len(t, skipped, 2)
	assert.Equal(t, "kiosk 0 has no id", skipped[0].Reason)
	assert.Equal(t, "ortho", skipped[1].EntityID)

	_, _, err = ParseKiosks([]byte("[[kiosk]"))
	require.ErrorIs(t, err, ErrInvalidRoster)
}

func TestEntityFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte(credentialsTOML), 0644))
	ctx := context.Background()

	entities, err := EntityFile{Path: path}.Entities(ctx)
	require.NoError(t, err)
	assert.Len(t, entities, 2)

	missing, err := EntityFile{Path: filepath.Join(dir, "missing.toml")}.Entities(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, os.WriteFile(path, []byte("[[entity]"), 0644))
	_, err = EntityFile{Path: path}.Entities(ctx)
	require.ErrorIs(t, err, ErrInvalidRoster)
	assert.Contains(t, err.Error(), path)
}

func TestEntityFileWarnsAboutSkippedRecords(t *testing.T) {
	var errOut bytes.Buffer
	colors.SetOutput(nil, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })

	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[entity]]
id = "prov-1"
  [[entity.field]]
  id = "state-license"
  expiration_date = "2026-11-07"

[[entity]]
id = "prov-2"
  [[entity.field]]
  id = "dea"
  status = "renewed"
`), 0644))

	entities, err := EntityFile{Path: path}.Entities(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Len(t, entities[0].Fields, 1)
	assert.Empty(t, entities[1].Fields)
	assert.Contains(t, errOut.String(), `skipped prov-2/dea: unknown status "renewed"`)
}

func TestKioskFileHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := KioskFile{Path: "whatever.toml"}.Kiosks(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
