package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it (godotenv does not override existing ones).
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString(&config.ListenAddr, "LISTEN_ADDR")
	setString(&config.BaseURL, "BASE_URL")
	setString(&config.Mode, "INGEST_MODE")
	setString(&config.DownloadDir, "DOWNLOAD_DIR")
	setDuration(&config.ProgressInterval, "PROGRESS_INTERVAL")
	setString(&config.BotToken, "BOT_TOKEN")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.StorageBackend, "STORAGE_BACKEND")
	setString(&config.R2BaseEndpoint, "R2_BASE_ENDPOINT")
	setString(&config.R2Region, "R2_REGION")
	setString(&config.R2AccessKeyID, "R2_ACCESS_KEY_ID")
	setString(&config.R2SecretKey, "R2_SECRET_ACCESS_KEY")
	setString(&config.R2Bucket, "R2_BUCKET")
	setDuration(&config.R2PresignExpiry, "R2_PRESIGN_EXPIRY")
	setString(&config.GofileToken, "GOFILE_TOKEN")
}
