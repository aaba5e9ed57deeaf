package api

import (
	"github.com/susu3304/geoguess/internal/catalog"
	"github.com/susu3304/geoguess/internal/geoscore"
)

// View operations, in the order a client should apply them.
const (
	OpRenderTargetMarker   = "render_target_marker"
	OpRenderGuessMarker    = "render_guess_marker"
	OpRenderConnectingLine = "render_connecting_line"
	OpClearOverlays        = "clear_overlays"
	OpResetView            = "reset_view"
	OpDisplayStatus        = "display_status"
	OpDisplayScoreboard    = "display_scoreboard"
)

type Scoreboard struct {
	Round    int    `json:"round"`
	Score    int    `json:"score"`
	Distance string `json:"distance"`
}

// ViewCommand is one render instruction for a browser map client.
type ViewCommand struct {
	Op         string               `json:"op"`
	Location   *catalog.Location    `json:"location,omitempty"`
	Coordinate *geoscore.Coordinate `json:"coordinate,omitempty"`
	From       *geoscore.Coordinate `json:"from,omitempty"`
	To         *geoscore.Coordinate `json:"to,omitempty"`
	Text       string               `json:"text,omitempty"`
	Scoreboard *Scoreboard          `json:"scoreboard,omitempty"`
}

// commandView records engine output so it can be sent back in the HTTP response.
type commandView struct {
	commands []ViewCommand
}

func newCommandView() *commandView {
	return &commandView{commands: []ViewCommand{}}
}

func (v *commandView) add(c ViewCommand) {
	v.commands = append(v.commands, c)
}

func (v *commandView) RenderTargetMarker(loc catalog.Location) {
	v.add(ViewCommand{Op: OpRenderTargetMarker, Location: &loc})
}

func (v *commandView) RenderGuessMarker(c geoscore.Coordinate) {
	v.add(ViewCommand{Op: OpRenderGuessMarker, Coordinate: &c})
}

func (v *commandView) RenderConnectingLine(from, to geoscore.Coordinate) {
	v.add(ViewCommand{Op: OpRenderConnectingLine, From: &from, To: &to})
}

func (v *commandView) ClearOverlays() { v.add(ViewCommand{Op: OpClearOverlays}) }

func (v *commandView) ResetView() { v.add(ViewCommand{Op: OpResetView}) }

func (v *commandView) DisplayStatus(text string) {
	v.add(ViewCommand{Op: OpDisplayStatus, Text: text})
}

func (v *commandView) DisplayScoreboard(round, score int, distance string) {
	v.add(ViewCommand{Op: OpDisplayScoreboard, Scoreboard: &Scoreboard{Round: round, Score: score, Distance: distance}})
}
