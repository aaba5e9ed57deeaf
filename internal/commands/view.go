package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/susu3304/geoguess/internal/catalog"
	"github.com/susu3304/geoguess/internal/geoscore"
)

// MapsLink points Google Maps at c. /geo guess accepts these links back.
func MapsLink(c geoscore.Coordinate) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(c.String())
}

// DirectionsLink draws the route between two points, the closest a chat reply gets to a line.
func DirectionsLink(from, to geoscore.Coordinate) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", from.String())
	q.Set("destination", to.String())
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

// DiscordView collects engine output into a single chat message.
// Markers and the line are slots, so rendering one again replaces it.
type DiscordView struct {
	status string
	board  string
	guess  string
	target string
	line   string
}

func (v *DiscordView) RenderTargetMarker(loc catalog.Location) {
	v.target = fmt.Sprintf("📍 Target: **%s** (<%s>)", loc.Name, MapsLink(loc.Coordinate()))
}

func (v *DiscordView) RenderGuessMarker(c geoscore.Coordinate) {
	v.guess = fmt.Sprintf("📌 Your guess: %s (<%s>)", c, MapsLink(c))
}

func (v *DiscordView) RenderConnectingLine(from, to geoscore.Coordinate) {
	v.line = fmt.Sprintf("📏 Guess → target: <%s>", DirectionsLink(from, to))
}

func (v *DiscordView) ClearOverlays() {
	v.guess, v.target, v.line = "", "", ""
}

// ResetView has nothing to recenter in a chat reply.
func (v *DiscordView) ResetView() {}

func (v *DiscordView) DisplayStatus(text string) {
	v.status = text
}

func (v *DiscordView) DisplayScoreboard(round, score int, distance string) {
	v.board = fmt.Sprintf("🏁 Round %d · Score %d · Distance %s", round, score, distance)
}

// Content renders the collected output.
func (v *DiscordView) Content() string {
	var lines []string
	for _, s := range []string{v.status, v.board, v.guess, v.target, v.line} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
