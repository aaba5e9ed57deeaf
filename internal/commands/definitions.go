package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/geoguess/internal/geoscore"
)

func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "geo",
			Description: "Guess where in the world the target is",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a new round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "guess",
					Description: "Mark your guess",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "location",
							Description: "lat,lng or a Google Maps / OpenStreetMap link",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "submit",
					Description: "Score your guess",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reveal",
					Description: "Show where the target is",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Reset round and score",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "difficulty",
					Description: "Change the scoring difficulty",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "level",
							Description: "Difficulty",
							Required:    true,
							Choices:     difficultyChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show your current game",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show the top players",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "level",
							Description: "Only count rounds played at this difficulty",
							Choices:     difficultyChoices(),
						},
					},
				},
			},
		},
	}
}

func difficultyChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, d := range geoscore.Difficulties() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(d), Value: string(d)})
	}
	return choices
}
