package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

const maxHistoryLimit = 200

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// Chat godoc
// @Summary      Send a chat message
// @Description  Routes the message through the dialogue rules. Omit session_id to start a new session.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request body types.ChatRequest true "Chat message"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} types.Response "Bad Request"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /chat [post]
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DialogueHandler").Start(r.Context(), "Chat", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Chat"))

	var req types.ChatRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid chat request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.HandleMessage(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err, "Failed to process message")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// SubmitLocation godoc
// @Summary      Submit a map-selected location
// @Description  Stores the coordinates on the session profile and resumes the recommendation flow.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request body types.LocationRequest true "Selected coordinates"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} types.Response "Bad Request"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /chat/location [post]
func (h *HandlerImpl) SubmitLocation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DialogueHandler").Start(r.Context(), "SubmitLocation", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat/location"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SubmitLocation"))

	var req types.LocationRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid location request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.SubmitLocation(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err, "Failed to apply location")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// History godoc
// @Summary      Get the message log of a session
// @Tags         Chat
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        limit query int false "Maximum number of latest messages"
// @Success      200 {array} types.ConversationMessage
// @Failure      400 {object} types.Response "Bad Request"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /chat/sessions/{id}/messages [get]
func (h *HandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DialogueHandler").Start(r.Context(), "History", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat/sessions/{id}/messages"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "History"))

	sessionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if sessionID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing session ID")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxHistoryLimit {
			api.ErrorResponse(w, r, http.StatusBadRequest, "limit must be an integer between 0 and 200")
			return
		}
		limit = n
	}

	messages, err := h.service.History(ctx, sessionID, limit)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err, "Failed to load session history")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, messages)
}

// ClearSession godoc
// @Summary      Clear a chat session
// @Description  Deletes the stored profile, location and message log of the session.
// @Tags         Chat
// @Param        id path string true "Session ID"
// @Success      204 "No Content"
// @Failure      400 {object} types.Response "Bad Request"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /chat/sessions/{id} [delete]
func (h *HandlerImpl) ClearSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DialogueHandler").Start(r.Context(), "ClearSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat/sessions/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ClearSession"))

	sessionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if sessionID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing session ID")
		return
	}
	if err := h.service.ClearSession(ctx, sessionID); err != nil {
		h.writeServiceError(ctx, w, r, l, err, "Failed to clear session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) writeServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger, err error, message string) {
	trace.SpanFromContext(ctx).RecordError(err)
	if errors.Is(err, types.ErrInvalidInput) {
		l.WarnContext(ctx, message, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	l.ErrorContext(ctx, message, slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, message)
}
