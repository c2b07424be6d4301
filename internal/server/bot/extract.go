package bot

import (
	"fmt"

	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// extractFile normalizes the attachment of a message into a file event.
// Telegram puts each attachment kind in its own field with its own subset of
// metadata; kinds without a filename get a synthetic one based on the unique
// file id.
func extractFile(msg *tgbotapi.Message) (models.InboundFile, bool) {
	switch {
	case msg.Document != nil:
		d := msg.Document
		return models.InboundFile{
			Kind: models.KindDocument,
			Ref:  d.FileID,
			Name: orFallback(d.FileName, "file_"+d.FileUniqueID),
			Size: int64(d.FileSize),
			Mime: d.MimeType,
		}, true
	case msg.Video != nil:
		v := msg.Video
		return models.InboundFile{
			Kind: models.KindVideo,
			Ref:  v.FileID,
			Name: orFallback(v.FileName, fmt.Sprintf("video_%s.mp4", v.FileUniqueID)),
			Size: int64(v.FileSize),
			Mime: orFallback(v.MimeType, "video/mp4"),
		}, true
	case msg.Audio != nil:
		a := msg.Audio
		return models.InboundFile{
			Kind: models.KindAudio,
			Ref:  a.FileID,
			Name: orFallback(a.FileName, fmt.Sprintf("audio_%s.mp3", a.FileUniqueID)),
			Size: int64(a.FileSize),
			Mime: orFallback(a.MimeType, "audio/mpeg"),
		}, true
	case msg.Voice != nil:
		v := msg.Voice
		return models.InboundFile{
			Kind: models.KindVoice,
			Ref:  v.FileID,
			Name: fmt.Sprintf("voice_%s.ogg", v.FileUniqueID),
			Size: int64(v.FileSize),
			Mime: orFallback(v.MimeType, "audio/ogg"),
		}, true
	case msg.VideoNote != nil:
		v := msg.VideoNote
		return models.InboundFile{
			Kind: models.KindVideoNote,
			Ref:  v.FileID,
			Name: fmt.Sprintf("video_note_%s.mp4", v.FileUniqueID),
			Size: int64(v.FileSize),
			Mime: "video/mp4",
		}, true
	case len(msg.Photo) > 0:
		// Telegram sends several resolutions; the last one is the largest.
		p := msg.Photo[len(msg.Photo)-1]
		return models.InboundFile{
			Kind: models.KindPhoto,
			Ref:  p.FileID,
			Name: fmt.Sprintf("photo_%s.jpg", p.FileUniqueID),
			Size: int64(p.FileSize),
			Mime: "image/jpeg",
		}, true
	}

	return models.InboundFile{}, false
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
