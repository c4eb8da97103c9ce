package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"deepfake-detector/api/internal/analysis"
)

// Engine calls Gemini through the generative-ai-go SDK. It keeps no client between calls:
// every request brings its own API key.
type Engine struct {
	// Endpoint overrides the API endpoint (tests, regional hosts). Empty means the SDK default.
	Endpoint string
}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return "gemini" }

func (e *Engine) Generate(ctx context.Context, in analysis.GenerateInput) (string, error) {
	key := strings.TrimSpace(in.APIKey)
	if key == "" {
		return "", fmt.Errorf("gemini: %w: empty API key", analysis.ErrInvalidCredential)
	}

	opts := []option.ClientOption{option.WithAPIKey(key)}
	if e.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(e.Endpoint))
	}
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", classify(err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(in.Model))
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}

	parts := []genai.Part{
		genai.Blob{MIMEType: in.MIMEType, Data: in.Data},
		genai.Text(in.Prompt),
	}
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classify(err)
	}
	return allText(resp), nil
}

// allText joins every text part of the first candidate that has content.
func allText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}

// classify marks rejected API keys with analysis.ErrInvalidCredential; everything else passes through wrapped.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isInvalidKey(err) {
		return fmt.Errorf("gemini: %w: %w", analysis.ErrInvalidCredential, err)
	}
	return fmt.Errorf("gemini: %w", err)
}

func isInvalidKey(err error) bool {
	if ae, ok := apierror.FromError(err); ok {
		switch ae.Reason() {
		case "API_KEY_INVALID", "API_KEY_SERVICE_BLOCKED", "API_KEY_HTTP_REFERRER_BLOCKED":
			return true
		}
		if c := ae.HTTPCode(); c == http.StatusUnauthorized || c == http.StatusForbidden {
			return true
		}
		if st := ae.GRPCStatus(); st != nil && isAuthCode(st.Code()) {
			return true
		}
	}
	if st, ok := status.FromError(err); ok && isAuthCode(st.Code()) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key not valid") ||
		strings.Contains(msg, "api_key_invalid") ||
		strings.Contains(msg, "api key expired")
}

func isAuthCode(c codes.Code) bool {
	return c == codes.Unauthenticated || c == codes.PermissionDenied
}
