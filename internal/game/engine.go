package game

import (
	"fmt"

	"github.com/susu3304/geoguess/internal/catalog"
	"github.com/susu3304/geoguess/internal/geoscore"
)

// Picker supplies round targets.
type Picker interface {
	Pick() catalog.Location
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRoundActive
	PhaseGuessPlaced
	PhaseScored
)

var phaseNames = [...]string{"idle", "round_active", "guess_placed", "scored"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type ScoreResult struct {
	Round          int                 `json:"round"`
	DistanceMeters float64             `json:"distance_meters"`
	Distance       string              `json:"distance"`
	Points         int                 `json:"points"`
	Difficulty     geoscore.Difficulty `json:"difficulty"`
	Target         catalog.Location    `json:"target"`
	Guess          geoscore.Coordinate `json:"guess"`
}

type Line struct {
	From geoscore.Coordinate `json:"from"`
	To   geoscore.Coordinate `json:"to"`
}

type Reveal struct {
	Target catalog.Location `json:"target"`
	Line   *Line            `json:"line,omitempty"`
}

// State is a read-only copy of the engine's round state.
type State struct {
	Phase      Phase                `json:"phase"`
	Round      int                  `json:"round"`
	Score      int                  `json:"score"`
	Difficulty geoscore.Difficulty  `json:"difficulty"`
	Hint       string               `json:"hint,omitempty"`
	Revealed   bool                 `json:"revealed"`
	Target     *catalog.Location    `json:"target,omitempty"`
	Guess      *geoscore.Coordinate `json:"guess,omitempty"`
	Last       *ScoreResult         `json:"last,omitempty"`
}

// Public drops the target while the player is still supposed to be looking for it.
func (s State) Public() State {
	if s.Phase != PhaseScored && !s.Revealed {
		s.Target = nil
	}
	return s
}

// Engine runs one player's game. It is not safe for concurrent use;
// callers that share an Engine between goroutines must serialise access.
type Engine struct {
	picker     Picker
	view       View
	difficulty geoscore.Difficulty

	phase  Phase
	round  int
	score  int
	target *catalog.Location
	guess  *geoscore.Coordinate
	last   *ScoreResult

	revealed bool
}

func New(picker Picker, view View, difficulty geoscore.Difficulty) *Engine {
	if view == nil {
		view = NopView{}
	}
	return &Engine{
		picker:     picker,
		view:       view,
		difficulty: geoscore.ParseDifficulty(string(difficulty)),
	}
}

// SetView replaces the view that receives render commands.
func (e *Engine) SetView(v View) {
	if v == nil {
		v = NopView{}
	}
	e.view = v
}

// SetDifficulty changes the difficulty used by the next SubmitGuess, including one for the
// round already in progress. Unknown names select easy.
func (e *Engine) SetDifficulty(name string) geoscore.Difficulty {
	e.difficulty = geoscore.ParseDifficulty(name)
	return e.difficulty
}

func (e *Engine) Difficulty() geoscore.Difficulty {
	return e.difficulty
}

// StartRound picks a new target and forgets the previous guess. Valid in every phase.
func (e *Engine) StartRound() catalog.Location {
	e.view.ClearOverlays()

	target := e.picker.Pick()
	e.round++
	e.target = &target
	e.guess = nil
	e.last = nil
	e.revealed = false
	e.phase = PhaseRoundActive

	e.view.DisplayScoreboard(e.round, e.score, "--")
	e.view.ResetView()

	status := fmt.Sprintf("Round %d: explore and mark your guess.", e.round)
	if target.Hint != "" {
		status += fmt.Sprintf(" Hint: %s.", target.Hint)
	}
	e.view.DisplayStatus(status)
	return target
}

// PlaceGuess records where the player thinks the target is.
// It may be called again to move the guess, also after the round was scored.
func (e *Engine) PlaceGuess(c geoscore.Coordinate) error {
	if e.target == nil {
		return precondition("place guess", ErrNoActiveRound)
	}

	c = c.Normalize()
	e.guess = &c
	e.phase = PhaseGuessPlaced

	e.view.RenderGuessMarker(c)
	e.view.DisplayStatus("Location marked. Submit your guess when ready.")
	return nil
}

// SubmitGuess scores the placed guess against the target with the current difficulty.
// Submitting again scores the retained guess again and adds the points again.
func (e *Engine) SubmitGuess() (ScoreResult, error) {
	switch {
	case e.target == nil:
		return ScoreResult{}, precondition("submit guess", ErrNoActiveRound)
	case e.guess == nil:
		return ScoreResult{}, precondition("submit guess", ErrNoGuess)
	}

	distance := geoscore.DistanceMeters(*e.guess, e.target.Coordinate())
	points := geoscore.Score(distance, e.difficulty.Setting())

	e.score += points
	e.phase = PhaseScored
	result := ScoreResult{
		Round:          e.round,
		DistanceMeters: distance,
		Distance:       geoscore.FormatDistance(distance),
		Points:         points,
		Difficulty:     e.difficulty,
		Target:         *e.target,
		Guess:          *e.guess,
	}
	e.last = &result

	e.view.RenderTargetMarker(*e.target)
	e.view.RenderConnectingLine(*e.guess, e.target.Coordinate())
	e.view.DisplayScoreboard(e.round, e.score, result.Distance)
	e.view.DisplayStatus(fmt.Sprintf("Distance: %s. Score +%d.", result.Distance, points))
	return result, nil
}

// Reveal shows the target, and the line from the guess if there is one.
// Score and round number are left alone.
func (e *Engine) Reveal() (Reveal, error) {
	if e.target == nil {
		return Reveal{}, precondition("reveal", ErrNoActiveRound)
	}

	e.revealed = true
	r := Reveal{Target: *e.target}
	e.view.RenderTargetMarker(*e.target)
	if e.guess != nil {
		r.Line = &Line{From: *e.guess, To: e.target.Coordinate()}
		e.view.RenderConnectingLine(r.Line.From, r.Line.To)
	}
	e.view.DisplayStatus("Location revealed.")
	return r, nil
}

// Reset ends the game and zeroes every counter.
func (e *Engine) Reset() {
	e.view.ClearOverlays()

	e.phase = PhaseIdle
	e.round = 0
	e.score = 0
	e.target = nil
	e.guess = nil
	e.last = nil
	e.revealed = false

	e.view.DisplayScoreboard(0, 0, "--")
	e.view.DisplayStatus("Game reset.")
}

func (e *Engine) Snapshot() State {
	s := State{
		Phase:      e.phase,
		Round:      e.round,
		Score:      e.score,
		Difficulty: e.difficulty,
		Revealed:   e.revealed,
	}
	if e.target != nil {
		t := *e.target
		s.Target = &t
		s.Hint = t.Hint
	}
	if e.guess != nil {
		g := *e.guess
		s.Guess = &g
	}
	if e.last != nil {
		l := *e.last
		s.Last = &l
	}
	return s
}
