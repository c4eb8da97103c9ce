package telegram

import (
	"fmt"
	"strings"

	"deepfake-detector/api/internal/analysis"
	"deepfake-detector/api/internal/util"
)

// telegram rejects messages longer than this many UTF-16 code units
const maxMessageUnits = 4096

const usageText = "Send a photo, a short video or an image/video file and I will check it for signs of AI generation or manipulation.\n\n" +
	"Commands:\n" +
	"/key <api-key> - use your own Gemini API key in this chat\n" +
	"/forget - drop the stored key\n" +
	"/health - check the analysis backend"

const askKeyText = "An API key is required. Get one at https://aistudio.google.com/apikey and send it with /key <api-key>."

func formatResult(res analysis.Result) string {
	head := "✅ REAL"
	if res.IsFake {
		head = "🚩 FAKE"
	}
	var b strings.Builder
	b.WriteString("Verdict: ")
	b.WriteString(head)
	b.WriteString("\nConfidence: ")
	b.WriteString(res.Confidence)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(res.Analysis))
	return util.TruncateUTF16(b.String(), maxMessageUnits)
}

// errorText turns an analysis failure into a chat reply. A missing key gets the /key hint.
func errorText(err error) string {
	ae := analysis.AsError(err)
	if ae.Reason == analysis.ReasonMissingCredential {
		return askKeyText
	}
	return fmt.Sprintf("❌ %s", ae.Detail)
}

func healthText(available bool, models []string) string {
	if !available {
		return "⚠️ Analysis backend is unavailable."
	}
	return "✅ OK, models: " + strings.Join(models, ", ")
}
