// cmd/dispatchbot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keshon/dispatchkit/command"
	"github.com/keshon/dispatchkit/config"
	"github.com/keshon/dispatchkit/dispatch"
	"github.com/keshon/dispatchkit/settings"
)

func main() {
	log.Println("[INFO] Starting dispatchkit example bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	client := dispatch.New(dispatch.Options{
		OwnerID:               cfg.OwnerID,
		CoOwnerIDs:            cfg.CoOwnerIDs,
		Prefix:                cfg.Prefix,
		AltPrefix:             cfg.AltPrefix,
		Prefixes:              cfg.Prefixes,
		HelpWord:              cfg.HelpWord,
		LinkedCacheSize:       cfg.LinkedCacheSize,
		Activity:              cfg.Activity,
		ServerInvite:          cfg.ServerInvite,
		CarbonKey:             cfg.CarbonKey,
		BotsKey:               cfg.BotsKey,
		Settings:              store,
		CooldownSweepInterval: time.Minute,
		Listener: dispatch.Listener{
			OnCommand: func(e *command.Event, cmd *command.Command) {
				if cmd != nil {
					log.Printf("[INFO] %s ran %s", e.Author().Username, cmd.Name)
				}
			},
		},
	})

	if err := client.AddCommand(&command.Command{
		Name:    "ping",
		Aliases: []string{"p"},
		Help:    "checks the bot is alive",
		Run: func(e *command.Event) {
			if left := e.Client.RemainingCooldown("ping:" + e.Author().ID); left > 0 {
				return
			}
			e.Client.ApplyCooldown("ping:"+e.Author().ID, 5)
			if _, err := e.Reply("Pong!"); err != nil {
				log.Println("[ERR] Failed to reply:", err)
			}
		},
	}); err != nil {
		log.Fatal("[ERR] ", err)
	}

	if err := client.AddCommand(&command.Command{
		Name:     "uses",
		Category: "Stats",
		Help:     "shows how often ping has run",
		Run: func(e *command.Event) {
			msg := fmt.Sprintf("ping has run %d times", e.Client.Uses("ping"))
			if _, err := e.Reply(msg); err != nil {
				log.Println("[ERR] Failed to reply:", err)
			}
		},
	}); err != nil {
		log.Fatal("[ERR] ", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := client.Start(ctx, cfg.DiscordToken); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Bot exited cleanly")
}
