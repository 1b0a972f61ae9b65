// Package stats posts guild-count statistics to third-party bot lists.
// Posting is best effort: failures are logged and never escalated.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultCarbonURL = "https://www.carbonitex.net/discord/data/botdata.php"
	defaultBotsURL   = "https://discord.bots.gg/api/v1/bots/%s/stats"
)

// Poster sends guild counts to the configured destinations. Posts are paced
// by an internal rate limiter so bursty gateway events (guild joins/leaves)
// cannot flood the lists.
type Poster struct {
	client    *http.Client
	limiter   *rate.Limiter
	carbonKey string
	botsKey   string
	carbonURL string
	botsURL   string
}

// New returns a poster for the given destination keys. Either key may be
// empty to skip that destination.
func New(carbonKey, botsKey string) *Poster {
	return &Poster{
		client:    &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(30*time.Second), 2),
		carbonKey: carbonKey,
		botsKey:   botsKey,
		carbonURL: defaultCarbonURL,
		botsURL:   defaultBotsURL,
	}
}

// Enabled reports whether at least one destination is configured.
func (p *Poster) Enabled() bool {
	return p != nil && (p.carbonKey != "" || p.botsKey != "")
}

// Post sends guildCount to every configured destination and returns the total
// guild count reported back by discord.bots.gg, falling back to guildCount
// when that destination is unavailable. A post suppressed by the rate limiter
// also falls back to guildCount.
func (p *Poster) Post(ctx context.Context, botID string, guildCount, shardID, shardCount int) int {
	if !p.Enabled() {
		return guildCount
	}
	if !p.limiter.Allow() {
		return guildCount
	}

	if p.carbonKey != "" {
		p.postCarbon(ctx, guildCount, shardID, shardCount)
	}
	if p.botsKey != "" {
		if total, err := p.postBots(ctx, botID, guildCount, shardID, shardCount); err == nil {
			return total
		} else {
			log.Println("[ERR] Failed to send information to discord.bots.gg:", err)
		}
	}
	return guildCount
}

func (p *Poster) postCarbon(ctx context.Context, guildCount, shardID, shardCount int) {
	form := url.Values{
		"key":         {p.carbonKey},
		"servercount": {strconv.Itoa(guildCount)},
	}
	if shardCount > 1 {
		form.Set("shard_id", strconv.Itoa(shardID))
		form.Set("shard_count", strconv.Itoa(shardCount))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.carbonURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		log.Println("[ERR] Failed to build carbonitex.net request:", err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		log.Println("[ERR] Failed to send information to carbonitex.net:", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	log.Println("[INFO] Successfully sent information to carbonitex.net")
}

func (p *Poster) postBots(ctx context.Context, botID string, guildCount, shardID, shardCount int) (int, error) {
	payload := map[string]int{"guildCount": guildCount}
	if shardCount > 1 {
		payload["shardId"] = shardID
		payload["shardCount"] = shardCount
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf(p.botsURL, botID), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", p.botsKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}

	var result struct {
		GuildCount int `json:"guildCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode shard information: %w", err)
	}
	log.Println("[INFO] Successfully sent information to discord.bots.gg")
	return result.GuildCount, nil
}
