package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

type MockDialogueService struct {
	mock.Mock
}

func (m *MockDialogueService) HandleMessage(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.ChatResponse), args.Error(1)
}

func (m *MockDialogueService) SubmitLocation(ctx context.Context, req types.LocationRequest) (types.ChatResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.ChatResponse), args.Error(1)
}

func (m *MockDialogueService) History(ctx context.Context, sessionID string, limit int) ([]types.ConversationMessage, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ConversationMessage), args.Error(1)
}

func (m *MockDialogueService) ClearSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func newTestRouter(h *HandlerImpl) http.Handler {
	r := chi.NewRouter()
	r.Post("/chat", h.Chat)
	r.Post("/chat/location", h.SubmitLocation)
	r.Get("/chat/sessions/{id}/messages", h.History)
	r.Delete("/chat/sessions/{id}", h.ClearSession)
	return r
}

func TestHandlerImpl_Chat(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))

		mockService.On("HandleMessage", mock.Anything, types.ChatRequest{SessionID: "s1", Message: "hello"}).
			Return(types.ChatResponse{SessionID: "s1", Answer: smallTalkReply, Result: []types.RecommendationResult{}, Intent: "chitchat"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"session_id":"s1","message":"hello"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "s1", body["session_id"])
		assert.Equal(t, []any{}, body["result"], "result is always a list")
		assert.NotContains(t, body, "show_map")
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))

		for _, payload := range []string{`{"message":""}`, `{"message":"hi","extra":1}`, `not json`} {
			req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		}
		mockService.AssertNotCalled(t, "HandleMessage", mock.Anything, mock.Anything)
	})

	t.Run("InvalidInputFromService", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))
		mockService.On("HandleMessage", mock.Anything, mock.Anything).
			Return(types.ChatResponse{}, fmt.Errorf("%w: message is empty", types.ErrInvalidInput)).Once()

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"message":"   "}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InternalServerError", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))
		mockService.On("HandleMessage", mock.Anything, mock.Anything).
			Return(types.ChatResponse{}, errors.New("redis down")).Once()

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"message":"hello"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp types.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Failed to process message", resp.Error)
	})
}

func TestHandlerImpl_SubmitLocation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))
		mockService.On("SubmitLocation", mock.Anything, types.LocationRequest{SessionID: "s1", Lat: 1.35, Lon: 103.82}).
			Return(types.ChatResponse{SessionID: "s1", Result: []types.RecommendationResult{{ID: "a1"}}, UserLocation: &types.UserLocation{Lat: 1.35, Lon: 103.82}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/chat/location", bytes.NewBufferString(`{"session_id":"s1","lat":1.35,"lon":103.82}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp types.ChatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 103.82, resp.UserLocation.Lon)
		mockService.AssertExpectations(t)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))

		for _, payload := range []string{
			`{"session_id":"s1","lat":91,"lon":0}`,
			`{"session_id":"s1","lat":0,"lon":-181}`,
			`{"lat":1,"lon":1}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/chat/location", bytes.NewBufferString(payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		}
		mockService.AssertNotCalled(t, "SubmitLocation", mock.Anything, mock.Anything)
	})
}

func TestHandlerImpl_History(t *testing.T) {
	mockService := new(MockDialogueService)
	router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))

	t.Run("Success", func(t *testing.T) {
		mockService.On("History", mock.Anything, "s1", 10).
			Return([]types.ConversationMessage{{Role: types.RoleUser, Content: "hello"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/chat/sessions/s1/messages?limit=10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var messages []types.ConversationMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
		require.Len(t, messages, 1)
		assert.Equal(t, "hello", messages[0].Content)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		for _, limit := range []string{"abc", "-1", "1000"} {
			req := httptest.NewRequest(http.MethodGet, "/chat/sessions/s1/messages?limit="+limit, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, limit)
		}
	})

	mockService.AssertExpectations(t)
}

func TestHandlerImpl_ClearSession(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))
		mockService.On("ClearSession", mock.Anything, "s1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/chat/sessions/s1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
		mockService.AssertExpectations(t)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mockService := new(MockDialogueService)
		router := newTestRouter(NewHandlerImpl(mockService, slog.Default()))
		mockService.On("ClearSession", mock.Anything, "s1").Return(errors.New("redis down")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/chat/sessions/s1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
