// Package command defines the command data model and the index-stable,
// alias-aware registry the dispatch engine resolves commands from.
package command

import (
	"github.com/bwmarrin/discordgo"
)

// Command is a text-triggered command. Identity fields are fixed at
// registration time; registries hold the pointer and never copy it.
type Command struct {
	// Name is the primary invocation token, matched case-insensitively.
	Name string

	// Aliases are alternate tokens resolving to this command, also
	// matched case-insensitively.
	Aliases []string

	// Category is an optional grouping label used by help output.
	Category string

	// Help is a short description shown in help output.
	Help string

	// Arguments describes the expected argument shape, e.g. "<user> [reason]".
	Arguments string

	// Hidden excludes the command from help output.
	Hidden bool

	// OwnerOnly hides the command from help output for non-owners.
	OwnerOnly bool

	// Cooldown is the suggested cooldown window in seconds. Zero disables.
	// The engine tracks cooldowns; enforcement is up to the command itself.
	Cooldown int

	// Run executes the command. The engine does not await, recover, or
	// retry it; failure handling belongs to the command author.
	Run func(e *Event)
}

// SlashCommand is an interaction-triggered command. Unlike text commands it
// has no alias concept and no prefix phase.
type SlashCommand struct {
	Name        string
	Description string

	// GuildID scopes registration to a single guild when non-empty.
	GuildID string

	// GuildOnly rejects use outside guilds. Informational for registration.
	GuildOnly bool

	// Definition overrides the generated application command payload.
	Definition *discordgo.ApplicationCommand

	Run func(e *SlashEvent)
}

// BuildDefinition returns the application command payload to upsert,
// generating a minimal one when no explicit Definition is set.
func (c *SlashCommand) BuildDefinition() *discordgo.ApplicationCommand {
	if c.Definition != nil {
		def := c.Definition
		if def.Name == "" {
			def.Name = c.Name
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		return def
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Type:        discordgo.ChatApplicationCommand,
	}
}

// TextNames indexes a text command under its name and every alias.
func TextNames(c *Command) []string {
	return append([]string{c.Name}, c.Aliases...)
}

// SlashNames indexes a slash command under its primary name only.
func SlashNames(c *SlashCommand) []string {
	return []string{c.Name}
}
