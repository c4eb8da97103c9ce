package analysis

import "time"

type Verdict string

const (
	VerdictReal Verdict = "REAL"
	VerdictFake Verdict = "FAKE"
)

// Request is one uploaded media item plus the caller's provider credential.
type Request struct {
	Payload  []byte
	MIMEType string
	APIKey   string
}

// Result is the normalized provider answer returned to the caller.
type Result struct {
	Success    bool    `json:"success"`
	Verdict    Verdict `json:"verdict"`
	Confidence string  `json:"confidence"`
	Analysis   string  `json:"analysis"`
	IsFake     bool    `json:"is_fake"`
}

// Record is the metadata kept in the analysis log. Payload bytes and the credential are never part of it.
type Record struct {
	SHA256     string    `json:"sha256"`
	MIMEType   string    `json:"mime_type"`
	Size       int       `json:"size"`
	Model      string    `json:"model"`
	Verdict    Verdict   `json:"verdict"`
	Confidence string    `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
