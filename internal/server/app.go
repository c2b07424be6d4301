// Package server initializes and runs the main application: the link
// registry, the Telegram bot and the HTTP download server, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/abhiramraj725/file-to-link-bot/internal/filex"
	"github.com/abhiramraj725/file-to-link-bot/internal/logging"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/bot"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/config"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/pipeline"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/registry"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/storage"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/transfer"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/transport"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/web"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	web      *web.Server
	bot      *bot.Bot
	pipeline *pipeline.Pipeline
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	mode, err := models.ParseIngestMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	repo, db, err := registry.OpenRepository(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("registry init error: %w", err)
	}

	regService := registry.NewService(repo, logger)

	var tr transport.Transport
	var tgClient *tgbotapi.BotAPI
	if cfg.BotToken != "" {
		tgClient, err = tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			return nil, fmt.Errorf("bot init error: %w", err)
		}
		tr = transport.NewTelegramTransport(tgClient, logger)
	} else if mode != models.ModeLive {
		return nil, fmt.Errorf("ingest mode %q requires a bot token", mode)
	} else {
		logger.Warn(ctx, "no bot token configured, serving registered links only")
	}

	if mode == models.ModeCached {
		if err := filex.EnsureDir(cfg.DownloadDir); err != nil {
			return nil, fmt.Errorf("download dir error: %w", err)
		}
	}

	store, err := openStorage(cfg, mode)
	if err != nil {
		return nil, err
	}

	p := pipeline.NewPipeline(pipeline.Config{
		BaseURL:          cfg.BaseURL,
		DownloadDir:      cfg.DownloadDir,
		ProgressInterval: cfg.ProgressInterval,
	}, regService, tr, store, logger)

	var upstream transfer.Upstream
	if tr != nil {
		upstream = tr
	}
	webServer := web.NewServer(cfg.ListenAddr, regService, transfer.NewSelector(upstream), logger)

	app := &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		web:      webServer,
		pipeline: p,
	}

	if tgClient != nil {
		app.bot = bot.NewBot(tgClient, p, mode, logger)
	}

	return app, nil
}

func openStorage(cfg *config.Config, mode models.IngestMode) (storage.ObjectStorage, error) {
	switch cfg.StorageBackend {
	case "r2":
		return storage.NewR2Storage(storage.R2Config{
			BaseEndpoint:    cfg.R2BaseEndpoint,
			Region:          cfg.R2Region,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretKey,
			Bucket:          cfg.R2Bucket,
			PresignExpiry:   cfg.R2PresignExpiry,
		}), nil
	case "gofile":
		return storage.NewGofileStorage(cfg.GofileToken), nil
	case "":
		if mode == models.ModeRemote {
			return nil, fmt.Errorf("ingest mode %q requires a storage backend", mode)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "mode", app.config.Mode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.web.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	if app.bot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.bot.Run(ctx); err != nil {
				app.logger.Error(ctx, err.Error())
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	// Let in-flight cache downloads finish before releasing the registry.
	app.pipeline.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}

	app.logger.Info(ctx, "App stopped")
}
