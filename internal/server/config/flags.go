package config

import (
	"flag"
	"os"
	"time"

	"github.com/abhiramraj725/file-to-link-bot/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-u string   externally visible base URL
//	-m string   ingest mode ("live", "cached", "remote")
//	-w string   download directory for cached copies
//	-i int      progress interval, seconds
//	-t string   Telegram bot token
//	-d string   PostgreSQL DSN
//	-s string   object storage backend ("r2", "gofile")
//	-e string   R2 base endpoint
//	-g string   R2 region
//	-k string   R2 access key id
//	-p string   R2 secret access key
//	-b string   R2 bucket name
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The interval flag is accepted as an integer in seconds and then
//     converted to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-m", "-w", "-i", "-t", "-d", "-s", "-e", "-g", "-k", "-p", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.BaseURL, "u", config.BaseURL, "base URL for download links")
	fs.StringVar(&config.Mode, "m", config.Mode, "ingest mode")
	fs.StringVar(&config.DownloadDir, "w", config.DownloadDir, "download directory")

	progressInterval := fs.Int("i", int(config.ProgressInterval.Seconds()), "progress interval (in seconds)")

	fs.StringVar(&config.BotToken, "t", config.BotToken, "Telegram bot token")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "object storage backend")
	fs.StringVar(&config.R2BaseEndpoint, "e", config.R2BaseEndpoint, "R2 base endpoint")
	fs.StringVar(&config.R2Region, "g", config.R2Region, "R2 region")
	fs.StringVar(&config.R2AccessKeyID, "k", config.R2AccessKeyID, "R2 access key id")
	fs.StringVar(&config.R2SecretKey, "p", config.R2SecretKey, "R2 secret access key")
	fs.StringVar(&config.R2Bucket, "b", config.R2Bucket, "R2 bucket")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ProgressInterval = time.Duration(*progressInterval) * time.Second
}
