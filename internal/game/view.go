package game

import (
	"github.com/susu3304/geoguess/internal/catalog"
	"github.com/susu3304/geoguess/internal/geoscore"
)

// View is whatever shows the game to the player: a map widget, a chat reply, a JSON frame.
// Render calls are idempotent; calling one again moves the marker or line instead of adding another.
type View interface {
	RenderTargetMarker(loc catalog.Location)
	RenderGuessMarker(c geoscore.Coordinate)
	RenderConnectingLine(from, to geoscore.Coordinate)
	ClearOverlays()
	ResetView()
	DisplayStatus(text string)
	DisplayScoreboard(round, score int, distance string)
}

// NopView discards everything.
type NopView struct{}

func (NopView) RenderTargetMarker(catalog.Location)           {}
func (NopView) RenderGuessMarker(geoscore.Coordinate)         {}
func (NopView) RenderConnectingLine(_, _ geoscore.Coordinate) {}
func (NopView) ClearOverlays()                                {}
func (NopView) ResetView()                                    {}
func (NopView) DisplayStatus(string)                          {}
func (NopView) DisplayScoreboard(_, _ int, _ string)          {}
