package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/dialogue"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/recommendation"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/vitals"
)

// Requests in these tests fail validation, so the handlers never reach their services.
func newTestRouter(limit int) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return SetupRouter(&Config{
		RecommendationHandler: recommendation.NewHandlerImpl(nil, logger),
		DialogueHandler:       dialogue.NewHandlerImpl(nil, logger),
		VitalsHandler:         vitals.NewHandlerImpl(nil, logger),
		ChatRequestsPerMinute: limit,
	})
}

func post(h http.Handler, path, body string) int {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestSetupRouter_Ping(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(-1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestSetupRouter_Routes(t *testing.T) {
	h := newTestRouter(-1)

	assert.Equal(t, http.StatusBadRequest, post(h, "/api/v1/recommendations", `{"k":99}`))
	assert.Equal(t, http.StatusBadRequest, post(h, "/api/v1/chat/", `{}`))
	assert.Equal(t, http.StatusBadRequest, post(h, "/api/v1/chat/location", `{"lat":1}`))
	assert.Equal(t, http.StatusBadRequest, post(h, "/api/v1/vitals", `{"blood_pressure":"120/80"}`))
	assert.Equal(t, http.StatusNotFound, post(h, "/api/v1/unknown", `{}`))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chat/sessions/abc/messages?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetupRouter_ChatRateLimit(t *testing.T) {
	h := newTestRouter(2)

	assert.Equal(t, http.StatusBadRequest, post(h, "/api/v1/chat/", `{}`))
	assert.Equal(t, http.StatusBadRequest, post(h, "/api/v1/chat/", `{}`))
	assert.Equal(t, http.StatusTooManyRequests, post(h, "/api/v1/chat/", `{}`))

	// Direct recommendations are not limited.
	for range 3 {
		assert.Equal(t, http.StatusBadRequest, post(h, "/api/v1/recommendations", `{"k":99}`))
	}
}

func TestChatLimit(t *testing.T) {
	assert.Equal(t, 0, chatLimit(-1))
	assert.Equal(t, defaultChatRequestsPerMinute, chatLimit(0))
	assert.Equal(t, 12, chatLimit(12))
}
