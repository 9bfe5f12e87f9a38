package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventlog/internal/models"
	"eventlog/internal/query"
	"eventlog/internal/service"
)

func postQuery(t *testing.T, s *service.Service, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestRouter(s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString(body))
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := &service.Service{Query: &mockQuery{loaded: true}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		Status string `json:"status"`
		Loaded bool   `json:"loaded"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Status != statusOK || !out.Loaded {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRunQuery_Success(t *testing.T) {
	q := &mockQuery{set: ipSet("127.0.0.1", "1.1.1.1"), loaded: true}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Query: q}

	w := postQuery(t, s, `{"query":"get ip for user = \"Amigo\""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out QueryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Field != "ip" || out.Count != 2 || len(out.Values) != 2 || out.Values[0] != "1.1.1.1" {
		t.Fatalf("unexpected response %+v", out)
	}
	if q.lastQuery != `get ip for user = "Amigo"` {
		t.Fatalf("query not forwarded, got %q", q.lastQuery)
	}
}

func TestRunQuery_Errors(t *testing.T) {
	_, malformed := query.Tokenize("get ip for user")

	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantKind string
	}{
		{name: "bad body", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "malformed query", body: `{"query":"get ip for user"}`, err: malformed, wantCode: http.StatusBadRequest, wantKind: "malformed_query"},
		{name: "not loaded", body: `{"query":"get ip"}`, err: service.ErrNotLoaded, wantCode: http.StatusServiceUnavailable},
		{name: "canceled", body: `{"query":"get ip"}`, err: context.Canceled, wantCode: statusClientClosedRequest},
		{name: "internal", body: `{"query":"get ip"}`, err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{Authorization: &mockAuth{parseID: 1}, Query: &mockQuery{err: tc.err}}
			w := postQuery(t, s, tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error == "" {
				t.Fatalf("expected error message, got %s", w.Body.String())
			}
			if out.Kind != tc.wantKind {
				t.Fatalf("kind: got %q, want %q", out.Kind, tc.wantKind)
			}
		})
	}
}

func TestRunQuery_RequiresAuth(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}, Query: &mockQuery{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString(`{"query":"get ip"}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetStatus(t *testing.T) {
	loaded := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	st := &mockStatus{status: models.IngestStatus{ID: 1, Source: "/logs", Files: 2, Records: 10, LoadedAt: loaded}}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Query: &mockQuery{loaded: true}, Status: st}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Loaded bool                `json:"loaded"`
		Ingest models.IngestStatus `json:"ingest"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Loaded || out.Ingest.Records != 10 || !out.Ingest.LoadedAt.Equal(loaded) {
		t.Fatalf("unexpected body %+v", out)
	}

	st.err = errors.New("db down")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
