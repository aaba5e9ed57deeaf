package commands

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// Discord rejects message content above this length.
const maxMessageLength = 2000

func truncate(content string) string {
	r := []rune(content)
	if len(r) <= maxMessageLength {
		return content
	}
	return string(r[:maxMessageLength-1]) + "…"
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: truncate(content)}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

// deferEphemeral acknowledges the interaction so slow work can finish before the reply.
func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: strPtr(truncate(content)),
	}); err != nil {
		log.Printf("Failed to edit interaction response: %v", err)
	}
}

func getStringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *string {
	for _, o := range opts {
		if o.Name == name {
			v := o.StringValue()
			return &v
		}
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
