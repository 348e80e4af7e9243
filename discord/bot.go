package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/craigatron/football-bot/commands"
	"github.com/craigatron/football-bot/fantasy"
	"github.com/rs/zerolog"
)

const (
	defaultCommandTimeout = 20 * time.Second
	// Discord rejects messages longer than this.
	maxMessageLength = 2000

	noLeagueReply = "no matching league, pick one with the league option or run this from a league's channel"
	failureReply  = "something went wrong, try again in a bit"
)

type reaction struct {
	trigger string
	emoji   string
}

var reactions = []reaction{
	{trigger: "football", emoji: "🏈"},
	{trigger: "butt", emoji: "🍑"},
}

const botMentionEmoji = "🤖"

type Config struct {
	Token   string
	AppID   string
	GuildID string
	// IgnoreReactions are user ids whose messages never get reactions.
	IgnoreReactions []string
	CommandTimeout  time.Duration
}

// Bot connects the command dispatcher to Discord.
type Bot struct {
	dg         *discordgo.Session
	session    Session
	cfg        Config
	dispatcher *commands.Dispatcher
	ignore     map[string]bool
	logger     zerolog.Logger

	mu     sync.RWMutex
	selfID string
}

func New(cfg Config, dispatcher *commands.Dispatcher, logger zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	b := newBot(dg, cfg, dispatcher, logger)
	b.dg = dg

	dg.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.onReady(r)
	})
	dg.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.onInteraction(i)
	})
	dg.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessage(m)
	})
	return b, nil
}

func newBot(s Session, cfg Config, dispatcher *commands.Dispatcher, logger zerolog.Logger) *Bot {
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = defaultCommandTimeout
	}
	ignore := make(map[string]bool, len(cfg.IgnoreReactions))
	for _, id := range cfg.IgnoreReactions {
		ignore[id] = true
	}
	return &Bot{
		session:    s,
		cfg:        cfg,
		dispatcher: dispatcher,
		ignore:     ignore,
		logger:     logger.With().Str("component", "discord").Logger(),
	}
}

// Open connects to the gateway. Commands are registered once the session is ready.
func (b *Bot) Open() error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("error opening discord session: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.dg.Close()
}

func (b *Bot) onReady(r *discordgo.Ready) {
	if r.User != nil {
		b.mu.Lock()
		b.selfID = r.User.ID
		b.mu.Unlock()
		b.logger.Info().Str("user", r.User.Username).Msg("connected to discord")
	}

	if err := b.RegisterCommands(); err != nil {
		b.logger.Error().Err(err).Msg("error registering commands")
	}
}

// RegisterCommands replaces the application's commands with the current set.
func (b *Bot) RegisterCommands() error {
	created, err := b.session.ApplicationCommandBulkOverwrite(b.cfg.AppID, b.cfg.GuildID, b.applicationCommands())
	if err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}
	b.logger.Info().Int("commands", len(created)).Msg("registered slash commands")
	return nil
}

func (b *Bot) applicationCommands() []*discordgo.ApplicationCommand {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, c := range b.dispatcher.Registry().Clients() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  c.Config.Name,
			Value: c.Config.ShortName,
		})
	}

	cmds := make([]*discordgo.ApplicationCommand, 0, len(commands.Definitions))
	for _, d := range commands.Definitions {
		cmd := &discordgo.ApplicationCommand{
			Name:        d.Name,
			Description: d.Description,
		}
		if d.League != commands.LeagueNone {
			cmd.Options = []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        commands.LeagueOption,
				Description: "which league?",
				Choices:     choices,
			}}
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (b *Bot) onInteraction(i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	req := commands.Request{
		Command:         data.Name,
		League:          leagueOption(data.Options),
		ResolveCategory: b.categoryResolver(i.ChannelID),
	}
	logger := b.logger.With().Str("command", req.Command).Str("channel_id", i.ChannelID).Logger()

	// Upstream calls can take longer than discord waits for a first response.
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		logger.Error().Err(err).Msg("error acknowledging interaction")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.CommandTimeout)
	defer cancel()

	reply, err := b.dispatcher.Dispatch(ctx, req)
	if err != nil {
		reply = errorReply(err)
	}
	reply = truncate(reply)

	if _, err := b.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}); err != nil {
		logger.Error().Err(err).Msg("error replying to interaction")
	}
}

func leagueOption(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, o := range options {
		if o.Name == commands.LeagueOption {
			return o.StringValue()
		}
	}
	return ""
}

// The league of a channel is the category the channel sits in.
func (b *Bot) categoryResolver(channelID string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		ch, err := b.session.Channel(channelID, discordgo.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("error looking up channel %s: %w", channelID, err)
		}
		return ch.ParentID, nil
	}
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, fantasy.ErrLeagueNotFound):
		return noLeagueReply
	case errors.Is(err, commands.ErrUnknownCommand):
		return fmt.Sprintf("I don't know how to do that (%v)", err)
	default:
		return failureReply
	}
}

// truncate caps s at maxMessageLength characters without splitting a rune.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxMessageLength {
		return s
	}
	const suffix = "\n...\n```"
	keep := maxMessageLength
	if strings.HasPrefix(s, "```") {
		keep -= len(suffix)
	}

	end, n := 0, 0
	for i := range s {
		if n == keep {
			end = i
			break
		}
		n++
	}
	if keep < maxMessageLength {
		return s[:end] + suffix
	}
	return s[:end]
}

func (b *Bot) onMessage(m *discordgo.MessageCreate) {
	if m.Author == nil || b.ignore[m.Author.ID] {
		return
	}
	b.mu.RLock()
	self := b.selfID
	b.mu.RUnlock()
	if m.Author.ID == self {
		return
	}

	for _, emoji := range reactionsFor(m.Message) {
		if err := b.session.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
			b.logger.Warn().Err(err).Str("emoji", emoji).Str("message_id", m.ID).Msg("error adding reaction")
		}
	}
}

func reactionsFor(m *discordgo.Message) []string {
	var emojis []string
	content := strings.ToLower(m.Content)
	for _, r := range reactions {
		if strings.Contains(content, r.trigger) {
			emojis = append(emojis, r.emoji)
		}
	}
	for _, u := range m.Mentions {
		if u.Bot {
			emojis = append(emojis, botMentionEmoji)
			break
		}
	}
	return emojis
}
