// Package bot is the Telegram-facing shim: it normalizes incoming
// attachments into file events, drives the ingest pipeline and talks back to
// the user.
package bot

import (
	"context"
	"fmt"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/logging"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/pipeline"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	startText = "Send me a file and I will reply with a direct download link."
	helpText  = "Send any document, video, audio, voice message, video note or photo.\n" +
		"I register it and reply with a download link that supports resumable downloads."
	failedText      = "Could not process this file, please try again later."
	unsupportedText = "I can only work with files. Send me a document, video, audio or photo."

	progressBarWidth = 20
)

// ingestor is the pipeline capability the shim drives.
type ingestor interface {
	Register(ctx context.Context, file models.InboundFile, mode models.IngestMode, onProgress pipeline.ProgressFunc) (string, error)
}

// botClient is the slice of the bot API client the shim uses.
// *tgbotapi.BotAPI satisfies it.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	client   botClient
	pipeline ingestor
	mode     models.IngestMode
	log      logging.Logger
}

func NewBot(client botClient, p ingestor, mode models.IngestMode, log logging.Logger) *Bot {
	return &Bot{
		client:   client,
		pipeline: p,
		mode:     mode,
		log:      log.With("module", "bot"),
	}
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := b.client.GetUpdatesChan(cfg)

	b.log.Info(ctx, "Starting bot update loop", "mode", string(b.mode))

	for {
		select {
		case <-ctx.Done():
			b.log.Info(ctx, "Stopping bot update loop...")
			b.client.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	file, ok := extractFile(msg)
	if !ok {
		b.reply(ctx, msg, unsupportedText)
		return
	}

	b.handleFile(ctx, msg, file)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(ctx, msg, startText)
	case "help":
		b.reply(ctx, msg, helpText)
	default:
		b.reply(ctx, msg, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleFile(ctx context.Context, msg *tgbotapi.Message, file models.InboundFile) {
	b.log.Info(ctx, "file received", "kind", string(file.Kind), "name", file.Name, "size", file.Size)

	status, err := b.client.Send(replyTo(msg, "Processing file..."))
	if err != nil {
		b.log.Error(ctx, "sending status message failed", "error", err)
		return
	}

	url, err := b.pipeline.Register(ctx, file, b.mode, b.progressEditor(ctx, status, file))
	if err != nil {
		b.log.Error(ctx, "ingest failed", "name", file.Name, "error", err)
		b.edit(ctx, status, failedText)
		return
	}

	b.reply(ctx, msg, fmt.Sprintf("%s\nSize: %s\n\n%s", file.Name, common.FormatSize(file.Size), url))

	if b.mode != models.ModeCached {
		// Cached mode keeps editing the status from the background
		// download; for the other modes it is finished now.
		b.edit(ctx, status, "Link ready.")
	}
}

// progressEditor renders throttled transfer progress into the status
// message.
func (b *Bot) progressEditor(ctx context.Context, status tgbotapi.Message, file models.InboundFile) pipeline.ProgressFunc {
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		percent := float64(written) / float64(total) * 100
		text := fmt.Sprintf("Downloading %s\n%s %.1f%%\n%s / %s",
			file.Name,
			common.ProgressBar(percent, progressBarWidth),
			percent,
			common.FormatSize(written),
			common.FormatSize(total))
		if written >= total {
			text = fmt.Sprintf("Download complete: %s (%s)", file.Name, common.FormatSize(total))
		}
		b.edit(ctx, status, text)
	}
}

func (b *Bot) reply(ctx context.Context, to *tgbotapi.Message, text string) {
	if _, err := b.client.Send(replyTo(to, text)); err != nil {
		b.log.Error(ctx, "sending reply failed", "chat", to.Chat.ID, "error", err)
	}
}

func (b *Bot) edit(ctx context.Context, status tgbotapi.Message, text string) {
	edit := tgbotapi.NewEditMessageText(status.Chat.ID, status.MessageID, text)
	if _, err := b.client.Request(edit); err != nil {
		b.log.Warn(ctx, "editing status message failed", "chat", status.Chat.ID, "error", err)
	}
}

func replyTo(msg *tgbotapi.Message, text string) tgbotapi.MessageConfig {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	return reply
}
