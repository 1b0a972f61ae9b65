package dispatch

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/command"
)

// Listener receives dispatch notifications. Every field is optional; nil
// hooks are skipped. cmd is nil when the built-in help handler runs.
type Listener struct {
	// OnCommand fires when a text command is about to execute.
	OnCommand func(e *command.Event, cmd *command.Command)

	// OnCompletedCommand fires after the built-in help handler completes.
	// Regular command completion is opaque to the engine (fire and forget),
	// so only help reports completion.
	OnCompletedCommand func(e *command.Event, cmd *command.Command)

	// OnNonCommandMessage fires for messages that match no prefix, or match
	// a prefix but no registered command.
	OnNonCommandMessage func(m *discordgo.MessageCreate)

	// OnSlashCommand fires when a slash command is about to execute.
	OnSlashCommand func(e *command.SlashEvent, cmd *command.SlashCommand)
}

func (l Listener) notifyCommand(e *command.Event, cmd *command.Command) {
	if l.OnCommand != nil {
		l.OnCommand(e, cmd)
	}
}

func (l Listener) notifyCompleted(e *command.Event, cmd *command.Command) {
	if l.OnCompletedCommand != nil {
		l.OnCompletedCommand(e, cmd)
	}
}

func (l Listener) notifyNonCommand(m *discordgo.MessageCreate) {
	if l.OnNonCommandMessage != nil {
		l.OnNonCommandMessage(m)
	}
}

func (l Listener) notifySlash(e *command.SlashEvent, cmd *command.SlashCommand) {
	if l.OnSlashCommand != nil {
		l.OnSlashCommand(e, cmd)
	}
}
