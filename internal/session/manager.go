package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/susu3304/geoguess/internal/game"
	"github.com/susu3304/geoguess/internal/geoscore"
	"github.com/susu3304/geoguess/internal/metrics"
)

var ErrGameNotFound = errors.New("game not found")

// Recorder archives scored rounds.
type Recorder interface {
	RecordResult(ctx context.Context, gameID string, owner Owner, result game.ScoreResult) error
}

// Owner identifies who plays a game and through which front end.
type Owner struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
}

// Game is one engine plus the lock that serialises access to it.
type Game struct {
	ID    string
	Owner Owner

	mu       sync.Mutex
	engine   *game.Engine
	lastUsed time.Time
}

type Options struct {
	Picker     game.Picker
	Difficulty geoscore.Difficulty
	Recorder   Recorder
	Metrics    *metrics.Metrics
	IdleTTL    time.Duration
}

type Manager struct {
	mu    sync.RWMutex
	games map[string]*Game

	picker     game.Picker
	difficulty geoscore.Difficulty
	recorder   Recorder
	metrics    *metrics.Metrics
	idleTTL    time.Duration
	now        func() time.Time
}

func NewManager(opts Options) *Manager {
	return &Manager{
		games:      make(map[string]*Game),
		picker:     opts.Picker,
		difficulty: geoscore.ParseDifficulty(string(opts.Difficulty)),
		recorder:   opts.Recorder,
		metrics:    opts.Metrics,
		idleTTL:    opts.IdleTTL,
		now:        time.Now,
	}
}

// Create starts a new game with a random ID.
func (m *Manager) Create(owner Owner, difficulty string) *Game {
	return m.add(uuid.NewString(), owner, difficulty)
}

// GetOrCreate returns the game stored under key, creating it if needed.
// Chat front ends use it with keys derived from channel and user.
func (m *Manager) GetOrCreate(key string, owner Owner) *Game {
	m.mu.RLock()
	g, ok := m.games[key]
	m.mu.RUnlock()
	if ok {
		return g
	}
	return m.add(key, owner, "")
}

func (m *Manager) add(id string, owner Owner, difficulty string) *Game {
	d := m.difficulty
	if difficulty != "" {
		d = geoscore.ParseDifficulty(difficulty)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[id]; ok {
		return g
	}
	g := &Game{
		ID:       id,
		Owner:    owner,
		engine:   game.New(m.picker, nil, d),
		lastUsed: m.now(),
	}
	m.games[id] = g
	if m.metrics != nil {
		m.metrics.ActiveGames.Set(float64(len(m.games)))
	}
	return g
}

func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	if m.metrics != nil {
		m.metrics.ActiveGames.Set(float64(len(m.games)))
	}
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// run executes fn on the game's engine with v attached as its view.
// The returned state is taken after fn, also when fn fails.
func (m *Manager) run(id, op string, v game.View, fn func(e *game.Engine) error) (*Game, game.State, error) {
	g, err := m.Get(id)
	if err != nil {
		return nil, game.State{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.engine.SetView(v)
	defer g.engine.SetView(nil)
	g.lastUsed = m.now()

	err = fn(g.engine)
	if err != nil && game.IsPrecondition(err) && m.metrics != nil {
		m.metrics.Warnings.WithLabelValues(op).Inc()
	}
	return g, g.engine.Snapshot(), err
}

func (m *Manager) State(id string) (game.State, error) {
	_, s, err := m.run(id, "state", nil, func(*game.Engine) error { return nil })
	return s, err
}

func (m *Manager) StartRound(id string, v game.View) (game.State, error) {
	g, s, err := m.run(id, "start_round", v, func(e *game.Engine) error {
		e.StartRound()
		return nil
	})
	if err == nil && m.metrics != nil {
		m.metrics.RoundsStarted.WithLabelValues(g.Owner.Source).Inc()
	}
	return s, err
}

func (m *Manager) PlaceGuess(id string, v game.View, c geoscore.Coordinate) (game.State, error) {
	_, s, err := m.run(id, "place_guess", v, func(e *game.Engine) error {
		return e.PlaceGuess(c)
	})
	return s, err
}

// SubmitGuess scores the game's guess and archives the result.
// Archive failures are logged and do not fail the submit.
func (m *Manager) SubmitGuess(ctx context.Context, id string, v game.View) (game.ScoreResult, game.State, error) {
	var res game.ScoreResult
	g, s, err := m.run(id, "submit_guess", v, func(e *game.Engine) error {
		var err error
		res, err = e.SubmitGuess()
		return err
	})
	if err != nil {
		return res, s, err
	}

	if m.metrics != nil {
		d := string(res.Difficulty)
		m.metrics.GuessesScored.WithLabelValues(d).Inc()
		m.metrics.Points.WithLabelValues(d).Observe(float64(res.Points))
		m.metrics.DistanceKm.Observe(res.DistanceMeters / 1000)
	}
	if m.recorder != nil {
		if err := m.recorder.RecordResult(ctx, g.ID, g.Owner, res); err != nil {
			log.Printf("Failed to archive round %d of game %s: %v", res.Round, g.ID, err)
			if m.metrics != nil {
				m.metrics.ArchiveErrors.Inc()
			}
		}
	}
	return res, s, nil
}

func (m *Manager) Reveal(id string, v game.View) (game.Reveal, game.State, error) {
	var r game.Reveal
	_, s, err := m.run(id, "reveal", v, func(e *game.Engine) error {
		var err error
		r, err = e.Reveal()
		return err
	})
	return r, s, err
}

func (m *Manager) Reset(id string, v game.View) (game.State, error) {
	_, s, err := m.run(id, "reset", v, func(e *game.Engine) error {
		e.Reset()
		return nil
	})
	return s, err
}

func (m *Manager) SetDifficulty(id, name string) (game.State, error) {
	_, s, err := m.run(id, "set_difficulty", nil, func(e *game.Engine) error {
		e.SetDifficulty(name)
		return nil
	})
	return s, err
}
