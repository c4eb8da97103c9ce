package analysis

import (
	"encoding/json"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		verdict    Verdict
		confidence string
	}{
		{"upper fake", "VERDICT: FAKE\nCONFIDENCE: 87%", VerdictFake, "87%"},
		{"lower fake", "this looks fake to me", VerdictFake, "N/A"},
		{"mixed case inside word", "Signs of a FaKeD composite, 70% sure", VerdictFake, "70%"},
		{"real", "VERDICT: REAL\nCONFIDENCE: 92%\nNo artifacts.", VerdictReal, "92%"},
		{"neither word defaults to real", "The image is authentic.", VerdictReal, "N/A"},
		{"not fake still contains fake", "This is NOT FAKE.", VerdictFake, "N/A"},
		{"trailing punctuation kept", "Confidence is 87%. Verdict REAL", VerdictReal, "87%."},
		{"first percent token wins", "score (0-100%) then 55%", VerdictReal, "(0-100%)"},
		{"percent glued to text", "conf:99%\tREAL", VerdictReal, "conf:99%"},
		{"empty", "", VerdictReal, "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, c := ParseVerdict(tc.text)
			if v != tc.verdict {
				t.Errorf("verdict = %s, want %s", v, tc.verdict)
			}
			if c != tc.confidence {
				t.Errorf("confidence = %q, want %q", c, tc.confidence)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	res := Normalize("VERDICT: FAKE\nCONFIDENCE: 64%\nghosting around the jaw")
	if !res.Success || res.Verdict != VerdictFake || !res.IsFake || res.Confidence != "64%" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Analysis != "VERDICT: FAKE\nCONFIDENCE: 64%\nghosting around the jaw" {
		t.Errorf("analysis text must be verbatim, got %q", res.Analysis)
	}
}

func TestNormalizeEmptyText(t *testing.T) {
	res := Normalize("")
	if res.Analysis != NoAnalysisText {
		t.Errorf("analysis = %q", res.Analysis)
	}
	if res.Verdict != VerdictReal || res.IsFake || res.Confidence != "N/A" || !res.Success {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestResultJSONShape(t *testing.T) {
	b, err := json.Marshal(Normalize("VERDICT: REAL\nCONFIDENCE: 92%\n..."))
	if err != nil {
		t.Fatal(err)
	}
	const want = `{"success":true,"verdict":"REAL","confidence":"92%","analysis":"VERDICT: REAL\nCONFIDENCE: 92%\n...","is_fake":false}`
	if string(b) != want {
		t.Errorf("json = %s\nwant  %s", b, want)
	}
}

func TestAllowedMIME(t *testing.T) {
	for _, mt := range AllowedMIMETypes() {
		if !IsAllowedMIME(mt) {
			t.Errorf("%s should be allowed", mt)
		}
	}
	for _, mt := range []string{"text/plain", "image/gif", "video/webm", "", "IMAGE/PNG"} {
		if IsAllowedMIME(mt) {
			t.Errorf("%q should be rejected", mt)
		}
	}
}
