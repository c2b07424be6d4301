package models

// FileKind tags which Telegram attachment type an inbound file came from.
// The core never branches on it beyond logging; the chat shim has already
// normalized name, size and MIME type.
type FileKind string

const (
	KindDocument  FileKind = "document"
	KindVideo     FileKind = "video"
	KindAudio     FileKind = "audio"
	KindVoice     FileKind = "voice"
	KindVideoNote FileKind = "video_note"
	KindPhoto     FileKind = "photo"
)

// InboundFile is a normalized "file received" event from the chat shim.
// Ref is the opaque upstream reference (Telegram file_id); the core treats
// it as an uninterpreted token.
type InboundFile struct {
	Kind FileKind
	Ref  string
	Name string
	Size int64
	Mime string
}
