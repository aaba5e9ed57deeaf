package geoscore

import (
	"math"
	"strings"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Setting tunes the score curve for one difficulty.
// A smaller FalloffMeters makes the score decay faster with distance.
type Setting struct {
	Multiplier    float64 `json:"multiplier"`
	MaxScore      int     `json:"max_score"`
	FalloffMeters float64 `json:"falloff_meters"`
}

var settings = map[Difficulty]Setting{
	Easy:   {Multiplier: 1.0, MaxScore: 5000, FalloffMeters: 800000},
	Medium: {Multiplier: 1.2, MaxScore: 5000, FalloffMeters: 450000},
	Hard:   {Multiplier: 1.4, MaxScore: 5000, FalloffMeters: 250000},
}

// Difficulties lists the known difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty maps a difficulty name to a Difficulty. Unknown names fall back to Easy.
func ParseDifficulty(name string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := settings[d]; ok {
		return d
	}
	return Easy
}

// Known reports whether name is one of the difficulty literals.
func Known(name string) bool {
	_, ok := settings[Difficulty(strings.ToLower(strings.TrimSpace(name)))]
	return ok
}

func (d Difficulty) Setting() Setting {
	if s, ok := settings[d]; ok {
		return s
	}
	return settings[Easy]
}

// Ceiling is the highest score a single guess can earn.
func (s Setting) Ceiling() int {
	return int(math.Round(float64(s.MaxScore) * s.Multiplier))
}
