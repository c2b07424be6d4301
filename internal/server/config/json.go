package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/abhiramraj725/file-to-link-bot/internal/flagx"
	"github.com/abhiramraj725/file-to-link-bot/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "2s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its non-empty fields are copied
// into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	ListenAddr       string         `json:"listen_addr"`
	BaseURL          string         `json:"base_url"`
	Mode             string         `json:"mode"`
	DownloadDir      string         `json:"download_dir"`
	ProgressInterval timex.Duration `json:"progress_interval"`
	BotToken         string         `json:"bot_token"`
	DatabaseDSN      string         `json:"database_dsn"`
	StorageBackend   string         `json:"storage_backend"`
	R2BaseEndpoint   string         `json:"r2_base_endpoint"`
	R2Region         string         `json:"r2_region"`
	R2AccessKeyID    string         `json:"r2_access_key_id"`
	R2SecretKey      string         `json:"r2_secret_access_key"`
	R2Bucket         string         `json:"r2_bucket"`
	R2PresignExpiry  timex.Duration `json:"r2_presign_expiry"`
	GofileToken      string         `json:"gofile_token"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. Fields absent from the file keep
// their current values. If the file cannot be read or contains invalid
// JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.Mode, c.Mode)
	setString(&config.DownloadDir, c.DownloadDir)
	if c.ProgressInterval.Duration != 0 {
		config.ProgressInterval = time.Duration(c.ProgressInterval.Duration)
	}
	setString(&config.BotToken, c.BotToken)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.R2BaseEndpoint, c.R2BaseEndpoint)
	setString(&config.R2Region, c.R2Region)
	setString(&config.R2AccessKeyID, c.R2AccessKeyID)
	setString(&config.R2SecretKey, c.R2SecretKey)
	setString(&config.R2Bucket, c.R2Bucket)
	if c.R2PresignExpiry.Duration != 0 {
		config.R2PresignExpiry = time.Duration(c.R2PresignExpiry.Duration)
	}
	setString(&config.GofileToken, c.GofileToken)
}
