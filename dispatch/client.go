package dispatch

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/command"
	"github.com/keshon/dispatchkit/cooldown"
	"github.com/keshon/dispatchkit/fixedcache"
	"github.com/keshon/dispatchkit/settings"
	"github.com/keshon/dispatchkit/stats"
)

// Client is the dispatch engine. It owns the two command registries, the
// usage counters, the cooldown tracker, and the linked-reply cache, and
// routes gateway events through them.
//
// The gateway invokes handlers concurrently; every piece of shared state is
// guarded by its owning component (registries and tracker carry their own
// locks, the rest by the client's mutexes).
type Client struct {
	opts     Options
	helpFunc func(e *command.Event)

	textCommands  *command.Registry[*command.Command]
	slashCommands *command.Registry[*command.SlashCommand]

	prefixes       []string
	prefixProvider settings.PrefixProvider

	cooldowns *cooldown.Tracker
	stats     *stats.Poster

	usesMu sync.Mutex
	uses   map[string]int

	linkMu        sync.Mutex
	linked        *fixedcache.Cache[int64, map[string]struct{}]
	deleteReplies func(s *discordgo.Session, channelID string, ids []string, bulk bool)

	mu          sync.RWMutex
	dg          *discordgo.Session
	textPrefix  string
	totalGuilds int

	start time.Time
}

// New builds a client from opts. Construction never fails; malformed owner
// IDs only log warnings.
func New(opts Options) *Client {
	opts = opts.withDefaults()

	c := &Client{
		opts:          opts,
		textCommands:  command.NewRegistry(command.TextNames),
		slashCommands: command.NewRegistry(command.SlashNames),
		cooldowns:     cooldown.New(),
		stats:         stats.New(opts.CarbonKey, opts.BotsKey),
		uses:          make(map[string]int),
		textPrefix:    opts.Prefix,
		start:         time.Now(),
	}

	if len(opts.Prefixes) > 0 {
		c.prefixes = make([]string, len(opts.Prefixes))
		copy(c.prefixes, opts.Prefixes)
		// Longest first so "!!" beats "!"; ties break lexicographically.
		sort.Slice(c.prefixes, func(i, j int) bool {
			if len(c.prefixes[i]) != len(c.prefixes[j]) {
				return len(c.prefixes[i]) > len(c.prefixes[j])
			}
			return c.prefixes[i] < c.prefixes[j]
		})
	}

	// Resolve the per-guild prefix capability once, not per event.
	if opts.Settings != nil {
		if provider, ok := opts.Settings.(settings.PrefixProvider); ok {
			c.prefixProvider = provider
		}
	}

	if opts.LinkedCacheSize > 0 {
		c.linked = fixedcache.New[int64, map[string]struct{}](opts.LinkedCacheSize)
	}
	c.deleteReplies = deleteReplies

	c.helpFunc = opts.HelpFunc
	if c.helpFunc == nil {
		c.helpFunc = c.defaultHelp
	}

	return c
}

// Start opens a gateway session and blocks until ctx is done. Background
// services (cooldown sweeper, settings manager) share the context's lifetime.
func (c *Client) Start(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	c.mu.Lock()
	c.dg = dg
	c.mu.Unlock()

	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentMessageContent

	dg.AddHandler(c.onReady)
	dg.AddHandler(c.onMessageCreate)
	dg.AddHandler(c.onInteractionCreate)
	dg.AddHandler(c.onMessageDelete)
	dg.AddHandler(c.onGuildCreate)
	dg.AddHandler(c.onGuildDelete)

	if c.opts.Settings != nil {
		if err := c.opts.Settings.Init(); err != nil {
			return fmt.Errorf("failed to init settings manager: %w", err)
		}
	}

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	if interval := c.opts.CooldownSweepInterval; interval > 0 {
		go cooldown.RunSweeper(ctx, c.cooldowns, interval)
	}

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	if c.opts.Settings != nil {
		if err := c.opts.Settings.Close(); err != nil {
			log.Println("[ERR] Failed to close settings manager:", err)
		}
	}
	return nil
}

// onReady resolves the textual prefix, sets presence, upserts slash command
// definitions, and kicks off a stats post.
func (c *Client) onReady(s *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	if c.opts.Prefix == DefaultPrefix {
		c.textPrefix = "@" + s.State.User.Username + " "
	}
	c.mu.Unlock()

	if c.opts.Activity != "" {
		if err := s.UpdateGameStatus(0, c.opts.Activity); err != nil {
			log.Println("[WARN] Failed to set presence:", err)
		}
	}

	c.upsertSlashCommands(s)

	if c.stats.Enabled() {
		go c.sendStats(s)
	}

	log.Printf("[INFO] ✅ %v is running in %d guilds.", s.State.User.Username, len(r.Guilds))
}

// onMessageCreate runs the text-command state machine.
func (c *Client) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	parts := c.matchParts(s, m)
	if parts == nil {
		c.opts.Listener.notifyNonCommand(m)
		return
	}

	if !c.opts.DisableHelp && strings.EqualFold(parts.Command, c.opts.HelpWord) {
		e := c.newEvent(s, m, parts)
		c.opts.Listener.notifyCommand(e, nil)
		c.helpFunc(e)
		c.opts.Listener.notifyCompleted(e, nil)
		return
	}

	if !c.canTalk(s, m) {
		return
	}

	cmd, ok := c.textCommands.Lookup(parts.Command)
	if !ok {
		// Unknown tokens after a valid prefix are ordinary chat, not errors.
		c.opts.Listener.notifyNonCommand(m)
		return
	}

	e := c.newEvent(s, m, parts)
	c.opts.Listener.notifyCommand(e, cmd)
	c.countUse(cmd.Name)

	if c.opts.PreProcessFunc != nil && !c.opts.PreProcessFunc(m) {
		return
	}
	if cmd.Run != nil {
		cmd.Run(e)
	}
}

// onInteractionCreate runs the slash-command state machine: exact-name
// lookup, hook, usage, execute. No prefix phase and no preprocess gate.
func (c *Client) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmd, ok := c.slashCommands.Lookup(i.ApplicationCommandData().Name)
	if !ok {
		return
	}

	e := &command.SlashEvent{Session: s, Interaction: i, Client: c}
	c.opts.Listener.notifySlash(e, cmd)
	c.countUse(cmd.Name)
	if cmd.Run != nil {
		cmd.Run(e)
	}
}

func (c *Client) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !c.stats.Enabled() {
		return
	}
	// Only a fresh join should trigger a post; GuildCreate also fires on
	// resume for every known guild.
	if time.Since(g.JoinedAt) < 10*time.Minute {
		go c.sendStats(s)
	}
}

func (c *Client) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if c.stats.Enabled() {
		go c.sendStats(s)
	}
}

func (c *Client) newEvent(s *discordgo.Session, m *discordgo.MessageCreate, parts *MessageParts) *command.Event {
	return &command.Event{
		Session: s,
		Message: m,
		Prefix:  parts.PrefixUsed,
		Args:    parts.Args,
		Client:  c,
	}
}

// canTalk reports whether the bot may speak in the message's channel.
// Direct messages always qualify.
func (c *Client) canTalk(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.GuildID == "" {
		return true
	}
	perms, err := s.State.UserChannelPermissions(s.State.User.ID, m.ChannelID)
	if err != nil {
		perms, err = s.UserChannelPermissions(s.State.User.ID, m.ChannelID)
		if err != nil {
			return false
		}
	}
	return perms&discordgo.PermissionSendMessages != 0
}

// upsertSlashCommands pushes every registered slash command definition,
// paced under the application-command rate limit.
func (c *Client) upsertSlashCommands(s *discordgo.Session) {
	cmds := c.slashCommands.List()
	if len(cmds) == 0 {
		return
	}

	ticker := time.NewTicker(time.Second / 40)
	defer ticker.Stop()

	var wg sync.WaitGroup
	for _, sc := range cmds {
		wg.Add(1)
		go func(sc *command.SlashCommand) {
			defer wg.Done()
			<-ticker.C

			_, err := s.ApplicationCommandCreate(s.State.User.ID, sc.GuildID, sc.BuildDefinition())
			if err != nil {
				log.Printf("[ERR] Can't create command %s: %v", sc.Name, err)
			} else {
				log.Printf("[DONE] Command created: %s", sc.Name)
			}
		}(sc)
	}
	wg.Wait()
}

func (c *Client) sendStats(s *discordgo.Session) {
	count := len(s.State.Guilds)
	total := c.stats.Post(context.Background(), s.State.User.ID, count, s.ShardID, s.ShardCount)

	c.mu.Lock()
	c.totalGuilds = total
	c.mu.Unlock()
}

func (c *Client) countUse(name string) {
	c.usesMu.Lock()
	c.uses[name]++
	c.usesMu.Unlock()
}

// Uses returns how many times the named command has been dispatched since start.
func (c *Client) Uses(name string) int {
	c.usesMu.Lock()
	defer c.usesMu.Unlock()
	return c.uses[name]
}

// ApplyCooldown starts or overwrites a cooldown window for a key.
func (c *Client) ApplyCooldown(key string, seconds int) {
	c.cooldowns.Apply(key, seconds)
}

// RemainingCooldown returns whole seconds left on a key, zero when inactive.
func (c *Client) RemainingCooldown(key string) int {
	return c.cooldowns.Remaining(key)
}

// CleanCooldowns removes every expired cooldown entry.
func (c *Client) CleanCooldowns() {
	c.cooldowns.Sweep()
}

// AddCommand appends a text command to the registry.
func (c *Client) AddCommand(cmd *command.Command) error {
	return c.textCommands.Add(cmd)
}

// AddCommandAt inserts a text command at index.
func (c *Client) AddCommandAt(cmd *command.Command, index int) error {
	return c.textCommands.AddAt(cmd, index)
}

// RemoveCommand removes the text command indexed under name.
func (c *Client) RemoveCommand(name string) error {
	return c.textCommands.Remove(name)
}

// Commands returns a snapshot of registered text commands in order.
func (c *Client) Commands() []*command.Command {
	return c.textCommands.List()
}

// AddSlashCommand appends a slash command to the registry.
func (c *Client) AddSlashCommand(cmd *command.SlashCommand) error {
	return c.slashCommands.Add(cmd)
}

// AddSlashCommandAt inserts a slash command at index.
func (c *Client) AddSlashCommandAt(cmd *command.SlashCommand, index int) error {
	return c.slashCommands.AddAt(cmd, index)
}

// RemoveSlashCommand removes the slash command indexed under name.
func (c *Client) RemoveSlashCommand(name string) error {
	return c.slashCommands.Remove(name)
}

// SlashCommands returns a snapshot of registered slash commands in order.
func (c *Client) SlashCommands() []*command.SlashCommand {
	return c.slashCommands.List()
}

// OwnerID returns the configured owner identifier.
func (c *Client) OwnerID() string { return c.opts.OwnerID }

// CoOwnerIDs returns the configured co-owner identifiers.
func (c *Client) CoOwnerIDs() []string { return c.opts.CoOwnerIDs }

// TextPrefix returns the displayable prefix. Before the session is ready a
// mention-marker prefix reads as the sentinel itself.
func (c *Client) TextPrefix() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.textPrefix
}

// TotalGuilds returns the latest guild total reported by the bot lists.
func (c *Client) TotalGuilds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalGuilds
}

// StartTime returns when the client was constructed.
func (c *Client) StartTime() time.Time { return c.start }

// Session returns the underlying gateway session, nil before Start.
func (c *Client) Session() *discordgo.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dg
}
