package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu      sync.Mutex
	updates []tgbotapi.Update
}

func (h *recordingHandler) HandleUpdate(u tgbotapi.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, u)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.updates)
}

const updateJSON = `{"update_id":7,"message":{"message_id":1,"chat":{"id":42,"type":"private"},"from":{"id":100,"is_bot":false,"first_name":"A"},"date":0,"text":"/start","entities":[{"type":"bot_command","offset":0,"length":6}]}}`

func newTestServer(h UpdateHandler, secret string) http.Handler {
	return NewServer(h, Options{
		WebhookPath: "/telegram/webhook",
		SecretToken: secret,
		Version:     "1.0.0",
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		}),
	}).Routes()
}

func post(t *testing.T, srv http.Handler, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		sent       string
		body       string
		wantStatus int
		wantCount  int
	}{
		{"valid update", "s3cret", "s3cret", updateJSON, http.StatusOK, 1},
		{"wrong secret", "s3cret", "nope", updateJSON, http.StatusUnauthorized, 0},
		{"missing secret", "s3cret", "", updateJSON, http.StatusUnauthorized, 0},
		{"no secret configured", "", "", updateJSON, http.StatusOK, 1},
		{"malformed body", "s3cret", "s3cret", "{not json", http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{}
			rec := post(t, newTestServer(h, tt.secret), tt.body, tt.sent)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCount, h.count())
		})
	}
}

func TestWebhook_DecodesUpdate(t *testing.T) {
	h := &recordingHandler{}
	rec := post(t, newTestServer(h, ""), updateJSON, "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, h.updates, 1)
	u := h.updates[0]
	assert.Equal(t, 7, u.UpdateID)
	require.NotNil(t, u.Message)
	assert.Equal(t, int64(42), u.Message.Chat.ID)
	assert.Equal(t, "start", u.Message.Command())
}

func TestWebhook_WrongMethod(t *testing.T) {
	h := &recordingHandler{}
	req := httptest.NewRequest(http.MethodGet, "/telegram/webhook", nil)
	rec := httptest.NewRecorder()
	newTestServer(h, "").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, h.count())
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(&recordingHandler{}, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.0.0", body.Version)
}

func TestMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(&recordingHandler{}, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}

func TestRoutes_NoMetricsOrWebhook(t *testing.T) {
	srv := NewServer(&recordingHandler{}, Options{}).Routes()

	for _, path := range []string{"/metrics", "/telegram/webhook"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
