package command

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Client is the slice of the dispatch engine commands may call back into.
// It is an interface here so commands never import the dispatch package
// directly (avoids import cycles).
type Client interface {
	// Uses returns how many times the named command has been dispatched.
	Uses(name string) int

	// ApplyCooldown starts or overwrites a cooldown window for a key.
	ApplyCooldown(key string, seconds int)

	// RemainingCooldown returns whole seconds left on a key, zero when inactive.
	RemainingCooldown(key string) int

	// LinkReply records a bot reply message against the triggering call
	// message for cascading deletion. No-op when linked deletion is disabled.
	LinkReply(callID int64, replyID string)

	OwnerID() string
	CoOwnerIDs() []string

	// TextPrefix is the displayable prefix, resolved after the session is ready.
	TextPrefix() string
}

// Event carries everything a text command needs to run: the session, the raw
// message event, the matched prefix, and the argument string.
type Event struct {
	Session *discordgo.Session
	Message *discordgo.MessageCreate

	// Prefix is the consumed prefix text, exactly as it appeared.
	Prefix string

	// Args is the argument string following the command token. Empty,
	// never absent, when nothing follows.
	Args string

	Client Client
}

// Author returns the user that triggered the command.
func (e *Event) Author() *discordgo.User {
	return e.Message.Author
}

// IsOwner reports whether the triggering user is the configured owner or a co-owner.
func (e *Event) IsOwner() bool {
	if e.Client == nil || e.Message.Author == nil {
		return false
	}
	id := e.Message.Author.ID
	if id == e.Client.OwnerID() {
		return true
	}
	for _, co := range e.Client.CoOwnerIDs() {
		if id == co {
			return true
		}
	}
	return false
}

// Reply sends content to the originating channel and links the sent message
// to the call message for cascading deletion.
func (e *Event) Reply(content string) (*discordgo.Message, error) {
	msg, err := e.Session.ChannelMessageSend(e.Message.ChannelID, content)
	if err != nil {
		return nil, err
	}
	e.linkReply(msg)
	return msg, nil
}

// ReplyEmbed sends an embed to the originating channel and links it like Reply.
func (e *Event) ReplyEmbed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	msg, err := e.Session.ChannelMessageSendEmbed(e.Message.ChannelID, embed)
	if err != nil {
		return nil, err
	}
	e.linkReply(msg)
	return msg, nil
}

// ReplyInDM sends content to the author's direct message channel. DM replies
// are never linked; deleting the call message cannot cascade across channels.
func (e *Event) ReplyInDM(content string) (*discordgo.Message, error) {
	ch, err := e.Session.UserChannelCreate(e.Message.Author.ID)
	if err != nil {
		return nil, err
	}
	return e.Session.ChannelMessageSend(ch.ID, content)
}

func (e *Event) linkReply(msg *discordgo.Message) {
	if e.Client == nil {
		return
	}
	callID, err := strconv.ParseInt(e.Message.ID, 10, 64)
	if err != nil {
		return
	}
	e.Client.LinkReply(callID, msg.ID)
}

// SlashEvent carries everything a slash command needs to run.
type SlashEvent struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Client      Client
}

// Options returns the invocation's resolved options.
func (e *SlashEvent) Options() []*discordgo.ApplicationCommandInteractionDataOption {
	return e.Interaction.ApplicationCommandData().Options
}

// Respond sends a public message response to the interaction.
func (e *SlashEvent) Respond(content string) error {
	return e.Session.InteractionRespond(e.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// RespondEphemeral sends an ephemeral message response to the interaction.
func (e *SlashEvent) RespondEphemeral(content string) error {
	return e.Session.InteractionRespond(e.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
