package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/geoguess/internal/catalog"
	"github.com/susu3304/geoguess/internal/commands"
	"github.com/susu3304/geoguess/internal/session"
)

func TestNewDoesNotConnect(t *testing.T) {
	games := session.NewManager(session.Options{Picker: catalog.Default(nil)})
	b, err := New("test-token", commands.NewGeo(games, nil))
	require.NoError(t, err)

	assert.Equal(t, "Bot test-token", b.session.Token)
	assert.Equal(t, discordgo.IntentsGuilds, b.session.Identify.Intents)
	assert.NotNil(t, b.geo)
}

func TestOnlyGeoCommandIsRegistered(t *testing.T) {
	cmds := commands.GetCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "geo", cmds[0].Name)

	var subs []string
	for _, o := range cmds[0].Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, o.Type)
		subs = append(subs, o.Name)
	}
	assert.Equal(t, []string{"start", "guess", "submit", "reveal", "reset", "difficulty", "status", "leaderboard"}, subs)
}
