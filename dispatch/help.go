package dispatch

import (
	"strings"

	"github.com/keshon/dispatchkit/command"
)

// defaultHelp builds a category-grouped command listing and sends it to the
// author's DMs, falling back to an in-channel warning when DMs are blocked.
// Hidden commands are skipped, owner-only commands shown to owners only.
func (c *Client) defaultHelp(e *command.Event) {
	var b strings.Builder
	b.WriteString("**" + e.Session.State.User.Username + "** commands:\n")

	category := ""
	started := false
	for _, cmd := range c.textCommands.List() {
		if cmd.Hidden || (cmd.OwnerOnly && !e.IsOwner()) {
			continue
		}
		if cmd.Category != category || !started {
			category = cmd.Category
			started = true
			label := category
			if label == "" {
				label = "No Category"
			}
			b.WriteString("\n\n__" + label + "__:\n")
		}
		b.WriteString("\n`" + c.TextPrefix() + cmd.Name)
		if cmd.Arguments != "" {
			b.WriteString(" " + cmd.Arguments)
		}
		b.WriteString("` - " + cmd.Help)
	}

	if c.opts.ServerInvite != "" {
		b.WriteString("\n\nFor additional help, join " + c.opts.ServerInvite)
	}

	if _, err := e.ReplyInDM(b.String()); err != nil {
		if c.opts.HelpUnavailableFunc != nil {
			c.opts.HelpUnavailableFunc(e)
			return
		}
		_, _ = e.Reply("Help cannot be sent because you are blocking Direct Messages.")
	}
}
