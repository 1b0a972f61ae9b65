package dispatch

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

type deleteCall struct {
	channelID string
	ids       []string
	bulk      bool
}

// captureDeletes swaps the client's reply deleter for a recorder.
func captureDeletes(c *Client) *[]deleteCall {
	calls := &[]deleteCall{}
	c.deleteReplies = func(s *discordgo.Session, channelID string, ids []string, bulk bool) {
		*calls = append(*calls, deleteCall{channelID, ids, bulk})
	}
	return calls
}

func deletedMessage(id, channelID string) *discordgo.MessageDelete {
	return &discordgo.MessageDelete{
		Message: &discordgo.Message{ID: id, ChannelID: channelID},
	}
}

func TestMessageDeleteBulksWithManagePermission(t *testing.T) {
	c := New(Options{Prefix: "!", LinkedCacheSize: 4})
	calls := captureDeletes(c)
	s := guildSession(t, "555",
		discordgo.PermissionSendMessages|discordgo.PermissionManageMessages)

	c.LinkReply(7, "r1")
	c.LinkReply(7, "r2")
	c.onMessageDelete(s, deletedMessage("7", "chan"))

	if len(*calls) != 1 {
		t.Fatalf("deleter invoked %d times, want 1", len(*calls))
	}
	got := (*calls)[0]
	if !got.bulk {
		t.Error("several replies with ManageMessages should delete in bulk")
	}
	if got.channelID != "chan" || len(got.ids) != 2 {
		t.Errorf("deleted %v in %q, want both replies in \"chan\"", got.ids, got.channelID)
	}
	// Consumed entries remain cached until capacity evicts them.
	if left := c.linkedReplies(7); len(left) != 2 {
		t.Errorf("cache entry = %v, want both replies retained", left)
	}
}

func TestMessageDeleteFallsBackToIndividual(t *testing.T) {
	c := New(Options{Prefix: "!", LinkedCacheSize: 4})
	calls := captureDeletes(c)
	s := guildSession(t, "555", discordgo.PermissionSendMessages)

	c.LinkReply(7, "r1")
	c.LinkReply(7, "r2")
	c.onMessageDelete(s, deletedMessage("7", "chan"))

	if len(*calls) != 1 {
		t.Fatalf("deleter invoked %d times, want 1", len(*calls))
	}
	if (*calls)[0].bulk {
		t.Error("without ManageMessages the replies must go one by one")
	}
}

func TestMessageDeleteSingleReplyNeverBulks(t *testing.T) {
	c := New(Options{Prefix: "!", LinkedCacheSize: 4})
	calls := captureDeletes(c)
	s := guildSession(t, "555",
		discordgo.PermissionSendMessages|discordgo.PermissionManageMessages)

	c.LinkReply(7, "r1")
	c.onMessageDelete(s, deletedMessage("7", "chan"))

	if len(*calls) != 1 {
		t.Fatalf("deleter invoked %d times, want 1", len(*calls))
	}
	if (*calls)[0].bulk {
		t.Error("a single reply should use a plain delete")
	}
}

func TestMessageDeleteIgnoresUnlinkedAndMalformedIDs(t *testing.T) {
	c := New(Options{Prefix: "!", LinkedCacheSize: 4})
	calls := captureDeletes(c)
	s := guildSession(t, "555", discordgo.PermissionSendMessages)

	c.LinkReply(7, "r1")
	c.onMessageDelete(s, deletedMessage("8", "chan"))
	c.onMessageDelete(s, deletedMessage("not-a-snowflake", "chan"))

	if len(*calls) != 0 {
		t.Errorf("deleter invoked %d times, want 0", len(*calls))
	}
}
