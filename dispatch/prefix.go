package dispatch

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// matchParts returns the message parts when raw content starts with a
// configured prefix, or nil when the message is not a command invocation.
//
// Rules are tried in a fixed priority order, first match wins:
// mention marker, prefix function, static prefix, alt prefix, prefix list,
// per-guild prefixes. All literal tests are case-insensitive except the
// prefix function's, which owns its own case policy.
func (c *Client) matchParts(s *discordgo.Session, m *discordgo.MessageCreate) *MessageParts {
	raw := m.Content

	if c.opts.Prefix == DefaultPrefix || c.opts.AltPrefix == DefaultPrefix {
		selfID := s.State.User.ID
		if strings.HasPrefix(raw, "<@"+selfID+">") || strings.HasPrefix(raw, "<@!"+selfID+">") {
			// The consumed prefix runs through the closing '>' inclusive.
			parts := splitMessage(raw, strings.IndexByte(raw, '>')+1)
			return &parts
		}
	}

	if c.opts.PrefixFunc != nil {
		if p := c.opts.PrefixFunc(m); p != "" && strings.HasPrefix(raw, p) {
			parts := splitMessage(raw, len(p))
			return &parts
		}
	}

	lower := strings.ToLower(raw)

	if strings.HasPrefix(lower, strings.ToLower(c.opts.Prefix)) {
		parts := splitMessage(raw, len(c.opts.Prefix))
		return &parts
	}

	if c.opts.AltPrefix != "" && strings.HasPrefix(lower, strings.ToLower(c.opts.AltPrefix)) {
		parts := splitMessage(raw, len(c.opts.AltPrefix))
		return &parts
	}

	for _, p := range c.prefixes {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			parts := splitMessage(raw, len(p))
			return &parts
		}
	}

	if c.prefixProvider != nil && m.GuildID != "" {
		for _, p := range c.prefixProvider.Prefixes(m.GuildID) {
			if strings.HasPrefix(lower, strings.ToLower(p)) {
				parts := splitMessage(raw, len(p))
				return &parts
			}
		}
	}

	return nil
}
