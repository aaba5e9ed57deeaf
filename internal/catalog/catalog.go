package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/susu3304/geoguess/internal/geoscore"
)

var (
	ErrEmptyCatalog    = errors.New("catalog has no locations")
	ErrInvalidLocation = errors.New("invalid location")
)

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Hint string  `json:"hint"`
}

func (l Location) Coordinate() geoscore.Coordinate {
	return geoscore.Coordinate{Lat: l.Lat, Lng: l.Lng}
}

// Catalog is an immutable set of locations to draw round targets from.
// It is safe for concurrent use.
type Catalog struct {
	locations []Location

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a catalog over locations. A nil rng uses a randomly seeded source.
func New(locations []Location, rng *rand.Rand) (*Catalog, error) {
	if len(locations) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i, loc := range locations {
		if loc.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidLocation, i)
		}
		if !loc.Coordinate().Valid() {
			return nil, fmt.Errorf("%w: %s has coordinates out of range (%v,%v)", ErrInvalidLocation, loc.Name, loc.Lat, loc.Lng)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	locs := make([]Location, len(locations))
	copy(locs, locations)
	return &Catalog{locations: locs, rng: rng}, nil
}

// Default returns the built-in catalog.
func Default(rng *rand.Rand) *Catalog {
	c, err := New(defaultLocations, rng)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a JSON array of locations from path.
func Load(path string, rng *rand.Rand) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}
	var locations []Location
	if err := json.Unmarshal(b, &locations); err != nil {
		return nil, fmt.Errorf("failed to parse locations file %s: %w", path, err)
	}
	return New(locations, rng)
}

// Pick returns a uniformly random location. Consecutive picks may repeat.
func (c *Catalog) Pick() Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locations[c.rng.IntN(len(c.locations))]
}

func (c *Catalog) Len() int {
	return len(c.locations)
}

// Locations returns a copy of every location in the catalog.
func (c *Catalog) Locations() []Location {
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out
}
