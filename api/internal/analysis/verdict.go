package analysis

import "strings"

const noConfidence = "N/A"

// ParseVerdict classifies provider text. Any case-insensitive "FAKE" makes it FAKE;
// everything else, including text with neither word, is REAL.
// Confidence is the first whitespace-delimited token containing '%', or "N/A".
func ParseVerdict(text string) (Verdict, string) {
	verdict := VerdictReal
	if strings.Contains(strings.ToUpper(text), "FAKE") {
		verdict = VerdictFake
	}
	return verdict, extractConfidence(text)
}

func extractConfidence(text string) string {
	if !strings.Contains(text, "%") {
		return noConfidence
	}
	for _, w := range strings.Fields(text) {
		if strings.Contains(w, "%") {
			return strings.TrimSpace(w)
		}
	}
	return noConfidence
}

// Normalize builds the caller-facing result from raw provider text.
func Normalize(text string) Result {
	if text == "" {
		text = NoAnalysisText
	}
	verdict, confidence := ParseVerdict(text)
	return Result{
		Success:    true,
		Verdict:    verdict,
		Confidence: confidence,
		Analysis:   text,
		IsFake:     verdict == VerdictFake,
	}
}
