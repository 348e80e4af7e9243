package mockdiscord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

type Session struct {
	mock.Mock
}

func (s *Session) ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	args := s.Called(appID, guildID, commands)

	var res []*discordgo.ApplicationCommand
	if args.Get(0) != nil {
		res = args.Get(0).([]*discordgo.ApplicationCommand)
	}

	return res, args.Error(1)
}

func (s *Session) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	args := s.Called(interaction, resp)
	return args.Error(0)
}

func (s *Session) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := s.Called(interaction, newresp)

	var res *discordgo.Message
	if args.Get(0) != nil {
		res = args.Get(0).(*discordgo.Message)
	}

	return res, args.Error(1)
}

func (s *Session) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	args := s.Called(channelID)

	var res *discordgo.Channel
	if args.Get(0) != nil {
		res = args.Get(0).(*discordgo.Channel)
	}

	return res, args.Error(1)
}

func (s *Session) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	args := s.Called(channelID, messageID, emojiID)
	return args.Error(0)
}
