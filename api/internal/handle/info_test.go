package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"deepfake-detector/api/internal/analysis"
)

type stubHistory struct {
	recs  []analysis.Record
	err   error
	limit int
}

func (s *stubHistory) Recent(_ context.Context, limit int) ([]analysis.Record, error) {
	s.limit = limit
	return s.recs, s.err
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name string
		h    *Handle
		want string
	}{
		{"available", newHandle(&stubProvider{}, 0), "available"},
		{"unavailable", newHandle(nil, 0), "unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := get(tc.h.Health, "/health")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			want := map[string]string{"status": "healthy", "service": "deepfake-detector", "genai": tc.want}
			for k, v := range want {
				if body[k] != v {
					t.Errorf("%s = %q, want %q", k, body[k], v)
				}
			}
			if len(body) != len(want) {
				t.Errorf("unexpected fields: %v", body)
			}
		})
	}
}

func TestAPIInfo(t *testing.T) {
	rr := get(newHandle(nil, 0).APIInfo, "/api")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Name           string            `json:"name"`
		Status         string            `json:"status"`
		GenAIAvailable bool              `json:"genai_available"`
		Endpoints      map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Name != APIName || body.Status != "online" || body.GenAIAvailable {
		t.Errorf("unexpected metadata %+v", body)
	}
	for _, p := range []string{"/analyze", "/health"} {
		if _, ok := body.Endpoints[p]; !ok {
			t.Errorf("endpoint map misses %s", p)
		}
	}
}

func TestHomeAndNotFound(t *testing.T) {
	h := newHandle(&stubProvider{}, 0)
	rr := get(h.Home, "/")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("home: %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "api_key") {
		t.Error("form must post an api_key field")
	}
	rr = get(h.Home, "/nope")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown path: %d", rr.Code)
	}
}

func TestDocsAndOpenAPI(t *testing.T) {
	h := newHandle(&stubProvider{}, 0)
	if rr := get(h.Docs, "/docs"); rr.Code != http.StatusOK {
		t.Errorf("docs: %d", rr.Code)
	}
	rr := get(h.OpenAPI, "/openapi.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("openapi: %d", rr.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("openapi.json is not valid JSON: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Errorf("openapi = %v", doc["openapi"])
	}
}

func TestHistory(t *testing.T) {
	h := newHandle(&stubProvider{}, 0)
	if rr := get(h.History, "/history"); rr.Code != http.StatusNotFound {
		t.Errorf("disabled history: %d", rr.Code)
	}

	hist := &stubHistory{recs: []analysis.Record{{
		SHA256: "abc", MIMEType: "image/png", Size: 3, Model: "m",
		Verdict: analysis.VerdictFake, Confidence: "70%", CreatedAt: time.Unix(0, 0).UTC(),
	}}}
	h = New(h.svc, hist, time.Second)
	rr := get(h.History, "/history?limit=500")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if hist.limit != 100 {
		t.Errorf("limit passed = %d, want clamped 100", hist.limit)
	}
	var body struct {
		Count int               `json:"count"`
		Items []analysis.Record `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 || body.Items[0].Verdict != analysis.VerdictFake {
		t.Errorf("unexpected body %+v", body)
	}

	hist.err = errors.New("db down")
	if rr := get(h.History, "/history"); rr.Code != http.StatusInternalServerError {
		t.Errorf("failing store: %d", rr.Code)
	}
}
