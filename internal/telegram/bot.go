package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/abduss/imgdrive/internal/gallery"
	"github.com/abduss/imgdrive/internal/media"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const helpText = "Send me an image!\nOr use one of these commands:\n/modify <path> change the upload folder\n/status show the current upload folder"

type uploader interface {
	UploadObject(ctx context.Context, body []byte, userPrefix string) (gallery.UploadResult, error)
}

// Bot turns webhook updates from allowed chats into gallery uploads.
type Bot struct {
	client   *Client
	uploader uploader
	prefs    *PreferenceStore
	allowed  map[string]struct{}
	maxBytes int64
	logger   *zap.Logger
}

// NewBot constructs a Bot. Only chats listed in allowedChatIDs are served.
func NewBot(client *Client, uploader uploader, prefs *PreferenceStore, allowedChatIDs []string, maxBytes int64, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(allowedChatIDs))
	for _, id := range allowedChatIDs {
		allowed[strings.TrimSpace(id)] = struct{}{}
	}
	return &Bot{
		client:   client,
		uploader: uploader,
		prefs:    prefs,
		allowed:  allowed,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Client exposes the Bot API client.
func (b *Bot) Client() *Client {
	return b.client
}

// HandleUpdate processes one update. Updates without a message are ignored.
// Only failures that happen before anything is stored are returned. Replies to
// the chat are best effort.
func (b *Bot) HandleUpdate(ctx context.Context, update Update) error {
	msg := update.Message
	if msg == nil {
		return nil
	}
	if _, ok := b.allowed[strconv.FormatInt(msg.Chat.ID, 10)]; !ok {
		return ErrChatNotAllowed
	}

	switch {
	case msg.Text != "":
		return b.handleText(ctx, msg)
	case msg.Document != nil:
		if !media.AllowedExtension(msg.Document.FileName) {
			b.reply(ctx, msg, "Unsupported file type, send a JPG/PNG/GIF/WEBP file.", "")
			return nil
		}
		return b.handleUpload(ctx, msg, msg.Document.FileID)
	case len(msg.Photo) > 0:
		return b.handleUpload(ctx, msg, largestPhoto(msg.Photo).FileID)
	}
	return nil
}

func (b *Bot) handleText(ctx context.Context, msg *Message) error {
	text := strings.TrimSpace(msg.Text)
	fields := strings.Fields(text)

	switch {
	case len(fields) > 0 && fields[0] == "/modify":
		if len(fields) < 2 {
			b.send(ctx, msg.Chat.ID, "Specify a path, for example: /modify blog")
			return nil
		}
		path := fields[1]
		if err := b.prefs.SetUploadPath(ctx, msg.Chat.ID, path); err != nil {
			return err
		}
		b.send(ctx, msg.Chat.ID, "Upload path set to "+path)
	case text == "/status":
		path, err := b.prefs.UploadPath(ctx, msg.Chat.ID)
		if err != nil {
			return err
		}
		if path == "" {
			path = "/ (default)"
		}
		b.send(ctx, msg.Chat.ID, "Current path: "+path)
	default:
		b.send(ctx, msg.Chat.ID, helpText)
	}
	return nil
}

func (b *Bot) handleUpload(ctx context.Context, msg *Message, fileID string) error {
	path, err := b.prefs.UploadPath(ctx, msg.Chat.ID)
	if err != nil {
		return err
	}

	body, err := b.client.Download(ctx, fileID, b.maxBytes+1)
	if err != nil {
		b.logger.Error("telegram download failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		b.reply(ctx, msg, "Failed to process the file, please try again later.", "")
		return nil
	}

	result, err := b.uploader.UploadObject(ctx, body, path)
	if err != nil {
		b.reply(ctx, msg, uploadFailureText(err), "")
		return nil
	}

	text := fmt.Sprintf("Direct link:\n<code>%s</code>\nMarkdown:\n<code>%s</code>\nSize: %s",
		html.EscapeString(result.URL),
		html.EscapeString(result.Markdown),
		humanize.Bytes(uint64(result.Size)),
	)
	b.reply(ctx, msg, text, "HTML")
	return nil
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	b.deliver(ctx, OutgoingMessage{ChatID: chatID, Text: text})
}

func (b *Bot) reply(ctx context.Context, msg *Message, text, parseMode string) {
	b.deliver(ctx, OutgoingMessage{
		ChatID:           msg.Chat.ID,
		Text:             text,
		ParseMode:        parseMode,
		ReplyToMessageID: msg.MessageID,
	})
}

func (b *Bot) deliver(ctx context.Context, out OutgoingMessage) {
	if err := b.client.SendMessage(ctx, out); err != nil {
		b.logger.Warn("telegram send failed", zap.Int64("chat_id", out.ChatID), zap.Error(err))
	}
}
func uploadFailureText(err error) string {
	switch {
	case errors.Is(err, gallery.ErrUnsupportedMediaType):
		return "Only JPG/PNG/GIF/WEBP files are supported."
	case errors.Is(err, gallery.ErrFileTooLarge):
		return "The file is too large."
	default:
		return "File upload failed, please try again later."
	}
}

func largestPhoto(sizes []PhotoSize) PhotoSize {
	return sizes[len(sizes)-1]
}
