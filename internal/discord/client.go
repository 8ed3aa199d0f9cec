package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (

	// First message posted into a freshly created channel. Every later
	// pass edits this message in place instead of posting new ones.
	seedContent = "> Content goes here..."
)

// A guild channel reduced to the fields the mirror cares about.
type Channel struct {
	ID   string
	Name string
}

// Addresses one editable message.
type Message struct {
	ChannelID string
	ID        string
}

// Talks to the Discord REST API for a single guild.
//
// The client never opens a gateway connection. Every call is a plain REST
// request, so there is no session state to keep alive between reconcile
// passes.
type Client struct {
	s          *discordgo.Session
	guildID    string
	categoryID string
}

// Creates a client for the given guild and category.
func New(token, guildID, categoryID string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDiscord)
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscord, err)
	}

	return &Client{
		s:          s,
		guildID:    guildID,
		categoryID: categoryID,
	}, nil
}

// Lists the text channels under the mirror category.
//
// Channels elsewhere in the guild are ignored, so the mirror never touches
// anything it did not create inside its own category.
func (c *Client) MirrorChannels(ctx context.Context) ([]Channel, error) {
	channels, err := c.s.GuildChannels(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: listing channels: %w", ErrDiscord, err)
	}

	mirrors := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText || ch.ParentID != c.categoryID {
			continue
		}
		mirrors = append(mirrors, Channel{ID: ch.ID, Name: ch.Name})
	}

	return mirrors, nil
}

// Creates a text channel for a container under the mirror category.
//
// The container name is normalized with [ChannelName] first so the name
// Discord stores matches the name used for lookups on later passes.
func (c *Client) CreateChannel(ctx context.Context, containerName string) (Channel, error) {
	name := ChannelName(containerName)

	ch, err := c.s.GuildChannelCreateComplex(c.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: c.categoryID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return Channel{}, fmt.Errorf("%w: creating channel %q: %w", ErrDiscord, name, err)
	}

	return Channel{ID: ch.ID, Name: ch.Name}, nil
}

// Deletes a channel.
//
// A channel that is already gone counts as deleted.
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	if _, err := c.s.ChannelDelete(id, discordgo.WithContext(ctx)); err != nil {
		if IsUnknownChannel(err) {
			return nil
		}
		return fmt.Errorf("%w: deleting channel %s: %w", ErrDiscord, id, err)
	}
	return nil
}

// Posts the placeholder message the reconcile pass edits in place.
func (c *Client) SeedMessage(ctx context.Context, channelID string) (Message, error) {
	m, err := c.s.ChannelMessageSend(channelID, seedContent, discordgo.WithContext(ctx))
	if err != nil {
		return Message{}, fmt.Errorf("%w: seeding channel %s: %w", ErrDiscord, channelID, err)
	}

	return Message{ChannelID: channelID, ID: m.ID}, nil
}

// Replaces a message with the given status embed.
//
// The original placeholder content is cleared so only the embed remains.
func (c *Client) UpdateStatus(ctx context.Context, msg Message, embed *discordgo.MessageEmbed) error {
	edit := discordgo.NewMessageEdit(msg.ChannelID, msg.ID).
		SetContent("").
		SetEmbeds([]*discordgo.MessageEmbed{embed})

	if _, err := c.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: updating message %s: %w", ErrDiscord, msg.ID, err)
	}

	return nil
}
