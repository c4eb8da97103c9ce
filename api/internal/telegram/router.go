package telegram

import (
	"context"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"deepfake-detector/api/internal/analysis"
	"deepfake-detector/api/internal/util"
)

// Analyzer is the part of analysis.Service the bot needs.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
	Available() bool
	MaxUploadBytes() int64
	Models() []string
}

type Router struct {
	Bot *tgbotapi.BotAPI
	Svc Analyzer

	// DefaultKey is used for chats that did not send /key.
	DefaultKey string
	// Timeout bounds one analysis, download included.
	Timeout time.Duration

	// Fetch overrides downloadFile (tests).
	Fetch func(ctx context.Context, fileID string, limit int64) ([]byte, error)
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}
	if msg.IsCommand() {
		r.HandleCommand(msg)
		return
	}
	if ref, ok := pickMedia(msg); ok {
		// анализ идёт до минуты, не держим цикл апдейтов
		go r.handleMedia(msg.Chat.ID, ref)
		return
	}
	r.send(msg.Chat.ID, "Send a photo, a video or an image/video file. /start shows the commands.")
}

func (r *Router) HandleCommand(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		r.send(cid, usageText)
	case "health":
		r.send(cid, healthText(r.Svc.Available(), r.Svc.Models()))
	case "key":
		key := strings.TrimSpace(msg.CommandArguments())
		if key == "" {
			r.send(cid, "Usage: /key <api-key>")
			return
		}
		setKey(cid, key)
		// ключ не должен висеть в истории чата
		if _, err := r.Bot.Request(tgbotapi.NewDeleteMessage(cid, msg.MessageID)); err != nil {
			log.Printf("telegram: delete /key message in chat %d: %v", cid, err)
		}
		r.send(cid, "🔑 Key saved for this chat. Send /forget to remove it.")
	case "forget":
		forgetKey(cid)
		r.send(cid, "Key removed.")
	default:
		r.send(cid, "Unknown command. /start shows the commands.")
	}
}

func (r *Router) handleMedia(chatID int64, ref mediaRef) {
	if _, err := r.Bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("telegram: chat action: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout())
	defer cancel()
	r.send(chatID, r.analyze(ctx, chatID, ref))
}

// analyze runs one attachment through the service and returns the reply text.
// Cheap checks run before the download.
func (r *Router) analyze(ctx context.Context, chatID int64, ref mediaRef) string {
	if r.Svc == nil || !r.Svc.Available() {
		return errorText(analysis.ErrUnavailable())
	}
	key := keyFor(chatID, r.DefaultKey)
	if key == "" {
		return askKeyText
	}
	if mt := util.BaseMIME(ref.MIMEType); mt != "" && mt != "application/octet-stream" && !analysis.IsAllowedMIME(mt) {
		return errorText(analysis.ErrUnsupportedType(mt))
	}
	limit := r.Svc.MaxUploadBytes()
	if ref.Size > limit {
		return errorText(analysis.ErrFileTooLarge(limit))
	}

	fetch := r.Fetch
	if fetch == nil {
		fetch = r.downloadFile
	}
	data, err := fetch(ctx, ref.FileID, limit)
	if err != nil {
		log.Printf("telegram: download for chat %d: %v", chatID, err)
		return "❌ Could not download the file from Telegram, please try again."
	}

	res, err := r.Svc.Analyze(ctx, analysis.Request{
		Payload:  data,
		MIMEType: util.PickMIME(ref.MIMEType, ref.Hint, data),
		APIKey:   key,
	})
	if err != nil {
		return errorText(err)
	}
	return formatResult(res)
}

func (r *Router) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return 90 * time.Second
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("telegram: send to %d: %v", chatID, err)
	}
}
