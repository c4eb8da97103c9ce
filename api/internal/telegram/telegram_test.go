package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"deepfake-detector/api/internal/analysis"
)

type stubAnalyzer struct {
	available bool
	limit     int64
	res       analysis.Result
	err       error
	got       analysis.Request
	calls     int
}

func (s *stubAnalyzer) Analyze(_ context.Context, req analysis.Request) (analysis.Result, error) {
	s.calls++
	s.got = req
	return s.res, s.err
}
func (s *stubAnalyzer) Available() bool       { return s.available }
func (s *stubAnalyzer) MaxUploadBytes() int64 { return s.limit }
func (s *stubAnalyzer) Models() []string      { return []string{"m1", "m2"} }

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}

func newRouter(svc *stubAnalyzer, data []byte, fetchErr error) (*Router, *int) {
	fetched := 0
	return &Router{
		Svc: svc,
		Fetch: func(context.Context, string, int64) ([]byte, error) {
			fetched++
			return data, fetchErr
		},
	}, &fetched
}

func TestPickMedia(t *testing.T) {
	cases := []struct {
		name string
		msg  *tgbotapi.Message
		want mediaRef
		ok   bool
	}{
		{"nil", nil, mediaRef{}, false},
		{"text", &tgbotapi.Message{Text: "hi"}, mediaRef{}, false},
		{
			"largest photo",
			&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "s", FileSize: 10}, {FileID: "l", FileSize: 900}}},
			mediaRef{FileID: "l", MIMEType: "image/jpeg", Size: 900},
			true,
		},
		{
			"video",
			&tgbotapi.Message{Video: &tgbotapi.Video{FileID: "v", MimeType: "video/quicktime", FileSize: 5}},
			mediaRef{FileID: "v", MIMEType: "video/quicktime", Hint: "video/mp4", Size: 5},
			true,
		},
		{
			"document",
			&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "d", FileName: "x.png", MimeType: "image/png", FileSize: 7}},
			mediaRef{FileID: "d", MIMEType: "image/png", Hint: "image/png", Size: 7},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := pickMedia(tc.msg)
			if ok != tc.ok || got != tc.want {
				t.Errorf("pickMedia = %+v, %v; want %+v, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestAnalyzeReply(t *testing.T) {
	const chat = int64(1001)
	forgetKey(chat)
	t.Cleanup(func() { forgetKey(chat) })

	svc := &stubAnalyzer{available: true, limit: 100, res: analysis.Normalize("FAKE 95% blending seams")}
	r, fetched := newRouter(svc, pngBytes, nil)
	ctx := context.Background()
	ref := mediaRef{FileID: "f", MIMEType: "image/png", Size: int64(len(pngBytes))}

	if got := r.analyze(ctx, chat, ref); got != askKeyText {
		t.Fatalf("no key: %q", got)
	}
	if *fetched != 0 {
		t.Fatal("file must not be downloaded without a key")
	}

	setKey(chat, "user-key")
	got := r.analyze(ctx, chat, ref)
	if !strings.Contains(got, "🚩 FAKE") || !strings.Contains(got, "95%") {
		t.Errorf("reply = %q", got)
	}
	if svc.got.APIKey != "user-key" || svc.got.MIMEType != "image/png" {
		t.Errorf("request = %+v", svc.got)
	}
}

func TestAnalyzeDefaultKey(t *testing.T) {
	const chat = int64(1002)
	forgetKey(chat)
	svc := &stubAnalyzer{available: true, limit: 100, res: analysis.Normalize("REAL 80%")}
	r, _ := newRouter(svc, pngBytes, nil)
	r.DefaultKey = " env-key "
	if got := r.analyze(context.Background(), chat, mediaRef{FileID: "f"}); !strings.Contains(got, "✅ REAL") {
		t.Errorf("reply = %q", got)
	}
	if svc.got.APIKey != "env-key" {
		t.Errorf("key = %q", svc.got.APIKey)
	}
	// undeclared type is sniffed from the bytes
	if svc.got.MIMEType != "image/png" {
		t.Errorf("mime = %q", svc.got.MIMEType)
	}
}

func TestAnalyzeRejectsBeforeDownload(t *testing.T) {
	const chat = int64(1003)
	setKey(chat, "k")
	t.Cleanup(func() { forgetKey(chat) })

	cases := []struct {
		name string
		svc  *stubAnalyzer
		ref  mediaRef
		want string
	}{
		{"unavailable", &stubAnalyzer{available: false, limit: 100}, mediaRef{MIMEType: "image/png"}, "not available"},
		{"unsupported", &stubAnalyzer{available: true, limit: 100}, mediaRef{MIMEType: "application/pdf"}, "Unsupported file type: application/pdf"},
		{"too large", &stubAnalyzer{available: true, limit: 1536}, mediaRef{MIMEType: "video/mp4", Size: 5000}, "Maximum size is 1.5KB."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, fetched := newRouter(tc.svc, pngBytes, nil)
			got := r.analyze(context.Background(), chat, tc.ref)
			if !strings.Contains(got, tc.want) {
				t.Errorf("reply = %q, want it to contain %q", got, tc.want)
			}
			if *fetched != 0 || tc.svc.calls != 0 {
				t.Errorf("fetched=%d calls=%d, want none", *fetched, tc.svc.calls)
			}
		})
	}
}

func TestAnalyzeFailures(t *testing.T) {
	const chat = int64(1004)
	setKey(chat, "k")
	t.Cleanup(func() { forgetKey(chat) })

	r, _ := newRouter(&stubAnalyzer{available: true, limit: 100}, nil, errors.New("boom"))
	if got := r.analyze(context.Background(), chat, mediaRef{MIMEType: "image/png"}); !strings.Contains(got, "Could not download") {
		t.Errorf("download failure reply = %q", got)
	}

	svc := &stubAnalyzer{available: true, limit: 100, err: analysis.ErrUnauthorized("Invalid API key", nil)}
	r, _ = newRouter(svc, pngBytes, nil)
	if got := r.analyze(context.Background(), chat, mediaRef{MIMEType: "image/png"}); got != "❌ Invalid API key" {
		t.Errorf("provider failure reply = %q", got)
	}
}

func TestKeyState(t *testing.T) {
	const chat = int64(2001)
	if got := keyFor(chat, "def"); got != "def" {
		t.Errorf("fallback = %q", got)
	}
	setKey(chat, "own")
	if got := keyFor(chat, "def"); got != "own" {
		t.Errorf("own key = %q", got)
	}
	forgetKey(chat)
	if got := keyFor(chat, ""); got != "" {
		t.Errorf("after forget = %q", got)
	}
}

func TestFormatResultTruncates(t *testing.T) {
	res := analysis.Normalize("REAL 70% " + strings.Repeat("я", 5000))
	got := formatResult(res)
	if n := utf8.RuneCountInString(got); n != maxMessageUnits {
		t.Errorf("runes = %d, want %d", n, maxMessageUnits)
	}
	if !strings.HasPrefix(got, "Verdict: ✅ REAL\nConfidence: 70%") {
		t.Errorf("head = %q", got[:40])
	}
}

func TestFormatResultCountsUTF16(t *testing.T) {
	res := analysis.Normalize("FAKE 99% " + strings.Repeat("🚩 seam ", 2000))
	got := formatResult(res)
	if n := len(utf16.Encode([]rune(got))); n > maxMessageUnits {
		t.Errorf("utf16 length = %d, over the %d limit", n, maxMessageUnits)
	}
	if !strings.HasSuffix(got, "…") {
		t.Error("truncated reply should end with an ellipsis")
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(analysis.ErrMissingCredential()); got != askKeyText {
		t.Errorf("missing key = %q", got)
	}
	if got := errorText(analysis.ErrEmptyFile()); got != "❌ Empty file uploaded" {
		t.Errorf("empty = %q", got)
	}
}
