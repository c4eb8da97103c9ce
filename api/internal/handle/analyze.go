package handle

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"deepfake-detector/api/internal/analysis"
	"deepfake-detector/api/internal/util"
)

const (
	// multipart framing and the api_key field on top of the payload cap
	formOverhead = 1 << 20
	maxKeyBytes  = 4 << 10
)

// Analyze handles POST /analyze with multipart fields "file" and "api_key".
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if !h.svc.Available() {
		writeError(w, analysis.ErrUnavailable())
		return
	}
	req, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.run(w, r, req)
}

// AnalyzeWithKeyHeader is Analyze with the credential taken from "Authorization: Bearer <key>".
func (h *Handle) AnalyzeWithKeyHeader(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if !h.svc.Available() {
		writeError(w, analysis.ErrUnavailable())
		return
	}
	key, ok := util.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, analysis.ErrUnauthorized("Invalid authorization header", nil))
		return
	}
	req, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	req.APIKey = key
	h.run(w, r, req)
}

func (h *Handle) run(w http.ResponseWriter, r *http.Request, req analysis.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), util.RequestDeadline(r, h.timeout))
	defer cancel()

	res, err := h.svc.Analyze(ctx, req)
	if err != nil {
		ae := analysis.AsError(err)
		if ae.StatusCode() >= http.StatusInternalServerError {
			log.Printf("analyze: %s (%s, %d bytes): %v", ae.Kind, req.MIMEType, len(req.Payload), ae.Err)
		}
		writeError(w, ae)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// readUpload streams the multipart body. The file part is buffered up to the cap plus one byte
// so an oversized upload is detected without holding all of it.
func (h *Handle) readUpload(w http.ResponseWriter, r *http.Request) (analysis.Request, error) {
	limit := h.svc.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return analysis.Request{}, analysis.ErrBadForm(analysis.ReasonMalformedForm,
			"Expected multipart/form-data with a 'file' field", err)
	}

	var (
		req     analysis.Request
		gotFile bool
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return analysis.Request{}, formError(err, limit)
		}
		switch part.FormName() {
		case "file":
			// only the first file part counts
			if !gotFile {
				gotFile = true
				// the declared type is matched as sent, without normalisation
				req.MIMEType = part.Header.Get("Content-Type")
				req.Payload, err = readPart(part, limit+1)
			}
		case "api_key":
			var b []byte
			b, err = readPart(part, maxKeyBytes)
			req.APIKey = strings.TrimSpace(string(b))
		}
		if err == nil {
			// drain whatever was not consumed so NextPart can advance
			_, err = io.Copy(io.Discard, part)
		}
		_ = part.Close()
		if err != nil {
			return analysis.Request{}, formError(err, limit)
		}
	}

	if !gotFile {
		return analysis.Request{}, analysis.ErrBadForm(analysis.ReasonMissingFile, "File is required", nil)
	}
	return req, nil
}

func readPart(p *multipart.Part, n int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(p, n))
}

func formError(err error, limit int64) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return analysis.ErrFileTooLarge(limit)
	}
	return analysis.ErrBadForm(analysis.ReasonMalformedForm, "Malformed multipart form: "+err.Error(), err)
}
