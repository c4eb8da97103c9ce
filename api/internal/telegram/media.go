package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// mediaRef is an attachment we can analyse, before it is downloaded.
type mediaRef struct {
	FileID   string
	MIMEType string // declared by Telegram; empty when unknown
	Hint     string // guessed from the file name
	Size     int64  // 0 when Telegram did not report it
}

// pickMedia selects the attachment of a message: the largest photo size, a video or a document.
func pickMedia(msg *tgbotapi.Message) (mediaRef, bool) {
	if msg == nil {
		return mediaRef{}, false
	}
	switch {
	case len(msg.Photo) > 0:
		ph := msg.Photo[len(msg.Photo)-1]
		return mediaRef{FileID: ph.FileID, MIMEType: "image/jpeg", Size: int64(ph.FileSize)}, true
	case msg.Video != nil:
		return mediaRef{
			FileID:   msg.Video.FileID,
			MIMEType: msg.Video.MimeType,
			Hint:     "video/mp4",
			Size:     int64(msg.Video.FileSize),
		}, true
	case msg.Document != nil:
		return mediaRef{
			FileID:   msg.Document.FileID,
			MIMEType: msg.Document.MimeType,
			Hint:     mime.TypeByExtension(filepath.Ext(msg.Document.FileName)),
			Size:     int64(msg.Document.FileSize),
		}, true
	}
	return mediaRef{}, false
}

// downloadFile fetches a file through the Bot API, reading at most limit+1 bytes
// so an oversized file is still reported as too large.
func (r *Router) downloadFile(ctx context.Context, fileID string, limit int64) ([]byte, error) {
	link, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient().Do(req)
	if err != nil {
		// url.Error carries the file link, which contains the bot token
		var ue *url.Error
		if errors.As(err, &ue) {
			return nil, ue.Err
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit+1))
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
