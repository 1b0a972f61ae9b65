// Package config loads bot configuration from the environment.
package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries everything the example bot needs to construct a client.
type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN,required"`
	OwnerID      string   `env:"OWNER_ID"`
	CoOwnerIDs   []string `env:"CO_OWNER_IDS" envSeparator:","`

	Prefix    string   `env:"PREFIX"`
	AltPrefix string   `env:"ALT_PREFIX"`
	Prefixes  []string `env:"PREFIXES" envSeparator:","`
	HelpWord  string   `env:"HELP_WORD"`

	SettingsPath    string `env:"SETTINGS_PATH" envDefault:"settings.json"`
	LinkedCacheSize int    `env:"LINKED_CACHE_SIZE" envDefault:"200"`

	Activity     string `env:"ACTIVITY"`
	ServerInvite string `env:"SERVER_INVITE"`
	CarbonKey    string `env:"CARBON_KEY"`
	BotsKey      string `env:"BOTS_KEY"`
}

// Load reads .env when present and parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
