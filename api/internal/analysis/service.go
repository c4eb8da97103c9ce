package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"deepfake-detector/api/internal/util"
)

const recordTimeout = 5 * time.Second

// DefaultMaxUploadBytes is the 4.5 MiB platform upload cap.
const DefaultMaxUploadBytes int64 = 4718592

type Options struct {
	Model         string
	FallbackModel string
	// MaxUploadBytes <= 0 means the 4.5 MiB default.
	MaxUploadBytes int64
	Recorder       Recorder
}

// Service runs the analysis pipeline. It holds only startup configuration and is safe
// for concurrent use.
type Service struct {
	provider Provider
	models   []string
	maxBytes int64
	recorder Recorder
}

// NewService wires a provider. A nil provider makes the service report itself unavailable.
func NewService(p Provider, opt Options) *Service {
	maxBytes := opt.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Service{
		provider: p,
		models:   attempts(opt.Model, opt.FallbackModel),
		maxBytes: maxBytes,
		recorder: opt.Recorder,
	}
}

// attempts is the ordered model list: primary, then at most one distinct fallback.
func attempts(primary, fallback string) []string {
	primary = strings.TrimSpace(primary)
	fallback = strings.TrimSpace(fallback)
	out := make([]string, 0, 2)
	if primary != "" {
		out = append(out, primary)
	}
	if fallback != "" && fallback != primary {
		out = append(out, fallback)
	}
	return out
}

func (s *Service) Available() bool { return s != nil && s.provider != nil }

func (s *Service) MaxUploadBytes() int64 { return s.maxBytes }

func (s *Service) Models() []string { return append([]string(nil), s.models...) }

// Validate runs the request guards in order; the first failing one wins.
func (s *Service) Validate(req Request) error {
	if !s.Available() {
		return ErrUnavailable()
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return ErrMissingCredential()
	}
	if !IsAllowedMIME(req.MIMEType) {
		return ErrUnsupportedType(req.MIMEType)
	}
	if len(req.Payload) == 0 {
		return ErrEmptyFile()
	}
	if int64(len(req.Payload)) > s.maxBytes {
		return ErrFileTooLarge(s.maxBytes)
	}
	return nil
}

// Analyze validates req, calls the provider and normalizes its answer.
// Every error returned is an *Error.
func (s *Service) Analyze(ctx context.Context, req Request) (res Result, err error) {
	if err := s.Validate(req); err != nil {
		return Result{}, err
	}
	if len(s.models) == 0 {
		return Result{}, ErrInternal(errors.New("no provider model configured"))
	}

	defer func() {
		if p := recover(); p != nil {
			log.Printf("analysis: panic: %v\n%s", p, debug.Stack())
			res, err = Result{}, ErrInternal(fmt.Errorf("%v", p))
		}
	}()

	text, model, err := s.generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	res = Normalize(text)
	s.record(ctx, req, model, res)
	return res, nil
}

// generate tries each model once, in order. A rejected credential stops immediately;
// when every attempt fails the last error is reported.
func (s *Service) generate(ctx context.Context, req Request) (string, string, error) {
	var lastErr error
	for i, model := range s.models {
		text, err := s.provider.Generate(ctx, GenerateInput{
			APIKey:   strings.TrimSpace(req.APIKey),
			Model:    model,
			MIMEType: req.MIMEType,
			Data:     req.Payload,
			Prompt:   ForensicPrompt,
		})
		if err == nil {
			return text, model, nil
		}
		if errors.Is(err, ErrInvalidCredential) {
			return "", model, ErrUnauthorized("Invalid API key: the provider rejected the supplied credential", err)
		}
		var ae *Error
		if errors.As(err, &ae) {
			return "", model, ae
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if i+1 < len(s.models) {
			log.Printf("analysis: %s model %s failed: %v; trying %s", s.provider.Name(), model, err, s.models[i+1])
		}
	}
	log.Printf("analysis: %s failed: %v", s.provider.Name(), lastErr)
	return "", "", ErrProvider(lastErr)
}

func (s *Service) record(ctx context.Context, req Request, model string, res Result) {
	if s.recorder == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	rec := Record{
		SHA256:     util.SHA256Hex(req.Payload),
		MIMEType:   req.MIMEType,
		Size:       len(req.Payload),
		Model:      model,
		Verdict:    res.Verdict,
		Confidence: res.Confidence,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.recorder.Record(rctx, rec); err != nil {
		log.Printf("analysis: record %s: %v", rec.SHA256[:12], err)
	}
}
