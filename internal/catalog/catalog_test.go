package catalog

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default(rand.New(rand.NewPCG(7, 7)))
	require.Equal(t, 10, c.Len())

	for _, loc := range c.Locations() {
		assert.NotEmpty(t, loc.Name)
		assert.NotEmpty(t, loc.Hint)
		assert.True(t, loc.Coordinate().Valid(), loc.Name)
	}
}

func TestPickCoversCatalogAndRepeats(t *testing.T) {
	c := Default(rand.New(rand.NewPCG(1, 2)))

	seen := map[string]int{}
	for range 2000 {
		seen[c.Pick().Name]++
	}

	assert.Len(t, seen, c.Len())
	for name, n := range seen {
		// 200 expected per entry
		assert.InDelta(t, 200, n, 80, name)
	}
}

func TestPickIsDeterministicForSeed(t *testing.T) {
	a := Default(rand.New(rand.NewPCG(42, 0)))
	b := Default(rand.New(rand.NewPCG(42, 0)))
	for range 20 {
		assert.Equal(t, a.Pick(), b.Pick())
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nil)
	require.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = New([]Location{{Name: "Nowhere", Lat: 95, Lng: 0}}, nil)
	require.ErrorIs(t, err, ErrInvalidLocation)

	_, err = New([]Location{{Lat: 1, Lng: 1}}, nil)
	require.ErrorIs(t, err, ErrInvalidLocation)

	c, err := New([]Location{{Name: "Null Island", Lat: 0, Lng: 0}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Null Island", c.Pick().Name)
}

func TestNewCopiesInput(t *testing.T) {
	locs := []Location{{Name: "A", Lat: 1, Lng: 1}}
	c, err := New(locs, nil)
	require.NoError(t, err)

	locs[0].Name = "mutated"
	assert.Equal(t, "A", c.Pick().Name)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
		{"name": "Bilbao", "lat": 43.2630, "lng": -2.9350, "hint": "Titanium museum"},
		{"name": "Kyoto", "lat": 35.0116, "lng": 135.7681, "hint": "Thousand gates"}
	]`), 0o600))

	c, err := Load(good, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err = Load(empty, nil)
	require.ErrorIs(t, err, ErrEmptyCatalog)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))
	_, err = Load(broken, nil)
	require.ErrorContains(t, err, "failed to parse locations file")

	_, err = Load(filepath.Join(dir, "missing.json"), nil)
	require.ErrorContains(t, err, "failed to read locations file")
}
