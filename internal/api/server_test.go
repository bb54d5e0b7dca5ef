package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/contenthub/internal/attachment"
	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/testutil"
)

// mockUploader implements Uploader for testing
type mockUploader struct {
	PresignFunc func(ctx context.Context, filename, contentType string) (*attachment.Upload, error)
}

func (m *mockUploader) PresignUpload(ctx context.Context, filename, contentType string) (*attachment.Upload, error) {
	if m.PresignFunc != nil {
		return m.PresignFunc(ctx, filename, contentType)
	}
	return nil, &model.ConfigError{Component: "storage", Message: "bucket is not configured"}
}

type testServer struct {
	*Server
	uploads *mockUploader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploads := &mockUploader{}
	s := NewServer(testutil.NewTestStore(t), uploads, nil, model.ServerConfig{
		Mode:           gin.TestMode,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	s.today = func() model.Date { return model.NewDate(2024, time.May, 15) }
	return &testServer{Server: s, uploads: uploads}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encoding body: %v", err)
			}
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %s: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decode[ErrorEnvelope](t, rec)
	if env.Error.Code != code {
		t.Fatalf("error code = %q, want %q", env.Error.Code, code)
	}
}

func (ts *testServer) createIdea(t *testing.T, title, date string) model.Idea {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/ideas", map[string]any{"title": title, "target_date": date})
	expectStatus(t, rec, http.StatusCreated)
	return decode[model.Idea](t, rec)
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthcheck", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/ideas", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin = %q", got)
	}
}
