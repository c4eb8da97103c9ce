package analysis

import "context"

// GenerateInput is a single provider call: one media part plus one text part.
type GenerateInput struct {
	APIKey   string
	Model    string
	MIMEType string
	Data     []byte
	Prompt   string
}

// Provider is the external generative-media model. Implementations build their client
// from in.APIKey on every call and return ErrInvalidCredential (wrapped) when the key is rejected.
type Provider interface {
	Name() string
	Generate(ctx context.Context, in GenerateInput) (string, error)
}

// Recorder receives metadata about successful analyses.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}
