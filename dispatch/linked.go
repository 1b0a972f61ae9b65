package dispatch

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// UsesLinkedDeletion reports whether the call-to-reply cache is active.
func (c *Client) UsesLinkedDeletion() bool {
	return c.linked != nil
}

// LinkReply records a bot reply message against the triggering call message
// so deleting the call can cascade to the replies. No-op when linked deletion
// is disabled.
func (c *Client) LinkReply(callID int64, replyID string) {
	if c.linked == nil {
		return
	}
	c.linkMu.Lock()
	defer c.linkMu.Unlock()

	if set, ok := c.linked.Get(callID); ok {
		set[replyID] = struct{}{}
		return
	}
	c.linked.Add(callID, map[string]struct{}{replyID: {}})
}

// linkedReplies returns a copy of the reply IDs linked to a call message.
func (c *Client) linkedReplies(callID int64) []string {
	if c.linked == nil {
		return nil
	}
	c.linkMu.Lock()
	defer c.linkMu.Unlock()

	set, ok := c.linked.Get(callID)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// onMessageDelete cascades deletion of a call message to its linked replies:
// one bulk delete when there are several and the bot may manage messages,
// otherwise one delete per reply. Best effort; failures are swallowed.
//
// Consumed entries stay cached until capacity eviction pushes them out.
func (c *Client) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if c.linked == nil {
		return
	}
	callID, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return
	}

	ids := c.linkedReplies(callID)
	if len(ids) == 0 {
		return
	}

	bulk := len(ids) > 1 && c.canManageMessages(s, m.ChannelID)
	c.deleteReplies(s, m.ChannelID, ids, bulk)
}

// deleteReplies removes linked replies over REST, in one bulk call or one
// call per message. Best effort; failures are swallowed.
func deleteReplies(s *discordgo.Session, channelID string, ids []string, bulk bool) {
	if bulk {
		_ = s.ChannelMessagesBulkDelete(channelID, ids)
		return
	}
	for _, id := range ids {
		_ = s.ChannelMessageDelete(channelID, id)
	}
}

// canManageMessages reports whether the bot holds ManageMessages in a channel.
func (c *Client) canManageMessages(s *discordgo.Session, channelID string) bool {
	perms, err := s.State.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		perms, err = s.UserChannelPermissions(s.State.User.ID, channelID)
		if err != nil {
			return false
		}
	}
	return perms&discordgo.PermissionManageMessages != 0
}
