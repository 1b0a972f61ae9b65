package dispatch

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func testSession(selfID string) *discordgo.Session {
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: selfID, Username: "TestBot"}
	return s
}

func message(content, guildID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:        "100",
			Content:   content,
			GuildID:   guildID,
			ChannelID: "chan",
			Author:    &discordgo.User{ID: "42", Username: "alice"},
		},
	}
}

// stubPrefixes implements settings.PrefixProvider for matcher tests.
type stubPrefixes map[string][]string

func (p stubPrefixes) Prefixes(guildID string) []string { return p[guildID] }

func TestMatchMentionMarker(t *testing.T) {
	s := testSession("555")
	c := New(Options{}) // Prefix defaults to the mention marker

	// The consumed prefix runs through the closing '>' inclusive, so the
	// space after a mention ends the command token at width zero and the
	// rest lands in Args.
	for _, content := range []string{"<@555> ping", "<@!555> ping"} {
		parts := c.matchParts(s, message(content, ""))
		if parts == nil {
			t.Fatalf("%q should match the mention prefix", content)
		}
		if parts.Command != "" {
			t.Errorf("%q: command = %q, want empty token", content, parts.Command)
		}
		if parts.Args != "ping" {
			t.Errorf("%q: args = %q, want \"ping\"", content, parts.Args)
		}
		if parts.PrefixUsed[len(parts.PrefixUsed)-1] != '>' {
			t.Errorf("%q: prefix %q should end at '>'", content, parts.PrefixUsed)
		}
	}

	// Without a separating space the token follows the '>' directly.
	for _, content := range []string{"<@555>ping", "<@!555>ping extra"} {
		parts := c.matchParts(s, message(content, ""))
		if parts == nil {
			t.Fatalf("%q should match the mention prefix", content)
		}
		if parts.Command != "ping" {
			t.Errorf("%q: command = %q, want \"ping\"", content, parts.Command)
		}
	}

	if parts := c.matchParts(s, message("<@999> ping", "")); parts != nil {
		t.Error("another user's mention should not match")
	}
}

func TestMatchStaticAndAltPrefix(t *testing.T) {
	s := testSession("555")
	c := New(Options{Prefix: "!", AltPrefix: "Bot,"})

	if parts := c.matchParts(s, message("!ping", "")); parts == nil || parts.Command != "ping" {
		t.Errorf("static prefix match failed: %+v", parts)
	}
	if parts := c.matchParts(s, message("bot, ping", "")); parts == nil {
		t.Error("alt prefix should match case-insensitively")
	}
	if parts := c.matchParts(s, message("ping", "")); parts != nil {
		t.Error("bare message should not match")
	}
}

func TestMatchPrefixFunction(t *testing.T) {
	s := testSession("555")
	c := New(Options{
		Prefix: "!",
		PrefixFunc: func(m *discordgo.MessageCreate) string {
			if m.GuildID == "g1" {
				return "$$"
			}
			return ""
		},
	})

	if parts := c.matchParts(s, message("$$ping", "g1")); parts == nil {
		t.Error("prefix function match failed")
	}
	if parts := c.matchParts(s, message("$$ping", "g2")); parts != nil {
		t.Error("prefix function returned empty; nothing else matches $$")
	}
	// Function prefixes are case-sensitive; the function owns case policy.
	c2 := New(Options{
		Prefix:     "!",
		PrefixFunc: func(m *discordgo.MessageCreate) string { return "GO " },
	})
	if parts := c2.matchParts(s, message("go ping", "")); parts != nil {
		t.Error("function prefix should not match case-insensitively")
	}
}

func TestMatchPriorityOrder(t *testing.T) {
	s := testSession("555")
	c := New(Options{
		Prefix:     "!",
		PrefixFunc: func(m *discordgo.MessageCreate) string { return "!p" },
	})

	// The function outranks the static prefix, so "!ping" consumes "!p".
	parts := c.matchParts(s, message("!ping", ""))
	if parts == nil {
		t.Fatal("expected a match")
	}
	if parts.PrefixUsed != "!p" {
		t.Errorf("consumed prefix = %q, want %q (higher-priority rule)", parts.PrefixUsed, "!p")
	}
	if parts.Command != "ing" {
		t.Errorf("command = %q, want %q", parts.Command, "ing")
	}
}

func TestMatchPrefixListLongestFirst(t *testing.T) {
	s := testSession("555")
	// Configured shortest-first; construction re-sorts length-descending.
	c := New(Options{Prefix: "?", Prefixes: []string{"!", "!!", "!a"}})

	parts := c.matchParts(s, message("!!ping", ""))
	if parts == nil {
		t.Fatal("expected a match")
	}
	if parts.PrefixUsed != "!!" {
		t.Errorf("consumed prefix = %q, want %q", parts.PrefixUsed, "!!")
	}
}

func TestMatchGuildPrefixes(t *testing.T) {
	s := testSession("555")
	c := New(Options{Prefix: "!"})
	c.prefixProvider = stubPrefixes{"g1": {".."}}

	if parts := c.matchParts(s, message("..ping", "g1")); parts == nil {
		t.Error("guild prefix should match in its guild")
	}
	if parts := c.matchParts(s, message("..ping", "g2")); parts != nil {
		t.Error("guild prefix should not leak to other guilds")
	}
	if parts := c.matchParts(s, message("..ping", "")); parts != nil {
		t.Error("guild prefixes should not apply to direct messages")
	}
}
