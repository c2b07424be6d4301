// Package config handles configuration for the server component, including
// defaults, environment variables, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the file-to-link server.
//
// Fields:
//   - ListenAddr: bind address for the public HTTP endpoint.
//   - BaseURL: externally visible base URL used when building download links.
//   - Mode: ingest mode ("live", "cached" or "remote").
//   - DownloadDir: directory for cached local copies.
//   - ProgressInterval: minimum spacing between chat progress edits.
//   - BotToken: Telegram bot API token.
//   - DatabaseDSN: optional PostgreSQL DSN (pgx); empty keeps the registry in memory.
//   - StorageBackend: object storage for remote mode ("r2" or "gofile").
//   - R2BaseEndpoint / R2Region / R2AccessKeyID / R2SecretAccessKey / R2Bucket /
//     R2PresignExpiry: Cloudflare R2 settings.
//   - GofileToken: optional Gofile account token.
type Config struct {
	ListenAddr       string
	BaseURL          string
	Mode             string
	DownloadDir      string
	ProgressInterval time.Duration
	BotToken         string
	DatabaseDSN      string
	StorageBackend   string
	R2BaseEndpoint   string
	R2Region         string
	R2AccessKeyID    string
	R2SecretKey      string
	R2Bucket         string
	R2PresignExpiry  time.Duration
	GofileToken      string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: BotToken and BaseURL must be overridden for any real deployment.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.BaseURL = "http://localhost:8080"
	c.Mode = "live"
	c.DownloadDir = "./downloads"
	c.ProgressInterval = 2 * time.Second
	c.R2Region = "auto"
	c.R2PresignExpiry = 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from a .env file and the environment, an optional JSON file, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
