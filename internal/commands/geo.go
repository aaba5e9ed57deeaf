package commands

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/geoguess/internal/db"
	"github.com/susu3304/geoguess/internal/game"
	"github.com/susu3304/geoguess/internal/geoscore"
	"github.com/susu3304/geoguess/internal/geourl"
	"github.com/susu3304/geoguess/internal/session"
)

// Short links are expanded over the network before the guess is placed.
const guessTimeout = 20 * time.Second

type Leaderboard interface {
	Leaderboard(ctx context.Context, difficulty string, limit int) ([]db.LeaderboardEntry, error)
}

// Geo runs the /geo command. Every (channel, user) pair plays its own game.
type Geo struct {
	games *session.Manager
	board Leaderboard
}

// NewGeo wires /geo to the game sessions. board may be nil when no archive is configured.
func NewGeo(games *session.Manager, board Leaderboard) *Geo {
	return &Geo{games: games, board: board}
}

type Reply struct {
	Content   string
	Ephemeral bool
}

func GameKey(channelID, userID string) string {
	return channelID + ":" + userID
}

func HandleGeo(s *discordgo.Session, i *discordgo.InteractionCreate, g *Geo) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respond(s, i, "No subcommand given.", true)
		return
	}
	sub := data.Options[0]

	user := interactionUser(i)
	if user == nil {
		return
	}
	owner := session.Owner{ID: user.ID, Name: displayName(i, user), Source: "discord"}
	key := GameKey(i.ChannelID, user.ID)

	if sub.Name == "guess" {
		// Defer the response since URL expansion might take time
		if err := deferEphemeral(s, i); err != nil {
			log.Printf("Failed to defer /geo guess: %v", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), guessTimeout)
		defer cancel()
		editResponse(s, i, g.Run(ctx, key, owner, sub.Name, sub.Options).Content)
		return
	}

	r := g.Run(context.Background(), key, owner, sub.Name, sub.Options)
	respond(s, i, r.Content, r.Ephemeral)
}

// Run executes one /geo subcommand for the game stored under key.
func (g *Geo) Run(ctx context.Context, key string, owner session.Owner, sub string, opts []*discordgo.ApplicationCommandInteractionDataOption) Reply {
	if sub == "leaderboard" {
		return g.leaderboard(ctx, opts)
	}

	g.games.GetOrCreate(key, owner)
	v := &DiscordView{}

	switch sub {
	case "start":
		if _, err := g.games.StartRound(key, v); err != nil {
			return failure(sub, err)
		}
		return Reply{Content: v.Content()}

	case "guess":
		loc := getStringOption(opts, "location")
		if loc == nil || strings.TrimSpace(*loc) == "" {
			return Reply{Content: "⚠️ Give a location as `lat,lng` or a map link.", Ephemeral: true}
		}
		c, err := geourl.Parse(ctx, *loc)
		if err != nil {
			return Reply{Content: "⚠️ Could not read coordinates: " + err.Error(), Ephemeral: true}
		}
		if _, err := g.games.PlaceGuess(key, v, c); err != nil {
			return failure(sub, err)
		}
		return Reply{Content: v.Content(), Ephemeral: true}

	case "submit":
		if _, _, err := g.games.SubmitGuess(ctx, key, v); err != nil {
			return failure(sub, err)
		}
		return Reply{Content: fmt.Sprintf("<@%s>\n%s", owner.ID, v.Content())}

	case "reveal":
		if _, _, err := g.games.Reveal(key, v); err != nil {
			return failure(sub, err)
		}
		return Reply{Content: v.Content()}

	case "reset":
		if _, err := g.games.Reset(key, v); err != nil {
			return failure(sub, err)
		}
		return Reply{Content: v.Content()}

	case "difficulty":
		level := getStringOption(opts, "level")
		if level == nil || !geoscore.Known(*level) {
			return Reply{Content: "⚠️ Difficulty must be easy, medium or hard.", Ephemeral: true}
		}
		state, err := g.games.SetDifficulty(key, *level)
		if err != nil {
			return failure(sub, err)
		}
		return Reply{Content: fmt.Sprintf("Difficulty set to **%s**.", state.Difficulty)}

	case "status":
		state, err := g.games.State(key)
		if err != nil {
			return failure(sub, err)
		}
		return Reply{Content: StatusText(state), Ephemeral: true}
	}

	return Reply{Content: "Unknown subcommand.", Ephemeral: true}
}

func failure(sub string, err error) Reply {
	if game.IsPrecondition(err) {
		return Reply{Content: "⚠️ " + err.Error(), Ephemeral: true}
	}
	log.Printf("/geo %s failed: %v", sub, err)
	return Reply{Content: "Something went wrong, please try again.", Ephemeral: true}
}

// StatusText summarises a game for /geo status.
func StatusText(s game.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 Round %d · Score %d · Difficulty %s\n", s.Round, s.Score, s.Difficulty)

	switch s.Phase {
	case game.PhaseIdle:
		b.WriteString("No round in progress. Use `/geo start`.")
	case game.PhaseRoundActive:
		fmt.Fprintf(&b, "Hint: %s\nMark your guess with `/geo guess`.", s.Hint)
	case game.PhaseGuessPlaced:
		if s.Guess != nil {
			fmt.Fprintf(&b, "Guess marked at %s (<%s>). Use `/geo submit`.", s.Guess, MapsLink(*s.Guess))
		}
	case game.PhaseScored:
		if s.Last != nil {
			fmt.Fprintf(&b, "Last round: +%d points, %s away from %s.", s.Last.Points, s.Last.Distance, s.Last.Target.Name)
		}
	}
	return b.String()
}

func (g *Geo) leaderboard(ctx context.Context, opts []*discordgo.ApplicationCommandInteractionDataOption) Reply {
	if g.board == nil {
		return Reply{Content: "The leaderboard is not available.", Ephemeral: true}
	}

	difficulty := ""
	if level := getStringOption(opts, "level"); level != nil && geoscore.Known(*level) {
		difficulty = string(geoscore.ParseDifficulty(*level))
	}

	entries, err := g.board.Leaderboard(ctx, difficulty, 10)
	if err != nil {
		log.Printf("Failed to load leaderboard: %v", err)
		return Reply{Content: "Could not load the leaderboard.", Ephemeral: true}
	}
	return Reply{Content: LeaderboardText(difficulty, entries)}
}

func LeaderboardText(difficulty string, entries []db.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "No rounds have been scored yet."
	}

	var b strings.Builder
	b.WriteString("🏆 **Leaderboard**")
	if difficulty != "" {
		fmt.Fprintf(&b, " (%s)", difficulty)
	}
	b.WriteString("\n")
	for idx, e := range entries {
		rank := idx + 1
		emoji := ""
		if rank == 1 {
			emoji = "🥇 "
		} else if rank == 2 {
			emoji = "🥈 "
		} else if rank == 3 {
			emoji = "🥉 "
		}
		fmt.Fprintf(&b, "%s%d. %s: **%d** points over %d rounds (best %d)\n", emoji, rank, e.PlayerName, e.TotalPoints, e.Rounds, e.BestPoints)
	}
	return strings.TrimRight(b.String(), "\n")
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func displayName(i *discordgo.InteractionCreate, u *discordgo.User) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	return u.Username
}
