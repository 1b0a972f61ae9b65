// Package dispatch implements the command-routing engine: it decides whether
// an inbound message invokes a registered command, extracts the token and
// arguments, resolves the command, and dispatches execution, tracking usage,
// cooldowns, and the linked-reply cache along the way.
package dispatch

import (
	"log"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/command"
	"github.com/keshon/dispatchkit/settings"
)

// DefaultPrefix is the mention-marker sentinel. A Prefix or AltPrefix equal
// to it makes the bot respond to its own mention instead of literal text.
const DefaultPrefix = "@mention"

// Options configures a Client. The zero value is usable: mention prefix,
// help enabled under the word "help", no linked deletion, no stats.
type Options struct {
	// OwnerID and CoOwnerIDs identify the bot owner(s). Malformed IDs are
	// logged as warnings at construction time and never block startup.
	OwnerID    string
	CoOwnerIDs []string

	// Prefix is the static prefix. Empty defaults to DefaultPrefix.
	Prefix string

	// AltPrefix is an optional secondary prefix.
	AltPrefix string

	// Prefixes are additional accepted prefixes. Sorted at construction by
	// length descending, ties broken lexicographically, so a longer prefix
	// always wins over a shorter one sharing its leading bytes.
	Prefixes []string

	// PrefixFunc resolves a prefix per event. A non-empty return is tested
	// case-sensitively; the function owns case policy.
	PrefixFunc func(m *discordgo.MessageCreate) string

	// PreProcessFunc gates text-command execution. Returning false abstains
	// dispatch silently. Not consulted on the slash path.
	PreProcessFunc func(m *discordgo.MessageCreate) bool

	// HelpWord triggers the help handler. Empty defaults to "help".
	HelpWord string

	// DisableHelp turns help handling off entirely.
	DisableHelp bool

	// HelpFunc overrides the built-in help generator.
	HelpFunc func(e *command.Event)

	// HelpUnavailableFunc runs when built-in help cannot reach the author's
	// DMs. Defaults to an in-channel warning.
	HelpUnavailableFunc func(e *command.Event)

	// LinkedCacheSize bounds the call-to-reply cache. Zero or negative
	// disables linked deletion entirely.
	LinkedCacheSize int

	// Activity is the presence text set once the session is ready.
	Activity string

	// ServerInvite is appended to built-in help output when set.
	ServerInvite string

	// CarbonKey and BotsKey enable bot-list statistics posting.
	CarbonKey string
	BotsKey   string

	// Settings supplies per-guild settings. If it also implements
	// settings.PrefixProvider, per-guild prefixes join prefix matching.
	Settings settings.Manager

	// Listener receives dispatch notifications.
	Listener Listener

	// CooldownSweepInterval runs a background cooldown sweep when positive.
	CooldownSweepInterval time.Duration
}

// withDefaults returns a copy with empty fields filled in and owner IDs
// checked. It never fails; bad IDs only warn.
func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.HelpWord == "" {
		o.HelpWord = "help"
	}
	if o.OwnerID != "" && !validID(o.OwnerID) {
		log.Printf("[WARN] The provided Owner ID (%s) was found unsafe! Make sure ID is a non-negative integer!", o.OwnerID)
	}
	for _, co := range o.CoOwnerIDs {
		if !validID(co) {
			log.Printf("[WARN] The provided CoOwner ID (%s) was found unsafe! Make sure ID is a non-negative integer!", co)
		}
	}
	return o
}

// validID reports whether id parses as a Discord snowflake: a non-negative
// integer of at most 20 digits.
func validID(id string) bool {
	if id == "" || len(id) > 20 {
		return false
	}
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}
