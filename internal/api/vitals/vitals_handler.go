package vitals

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

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

// Submit godoc
// @Summary      Submit a vital signs reading
// @Description  Parses the blood pressure, computes a health score and, when session_id is set, stores the reading on that chat session.
// @Tags         Vitals
// @Accept       json
// @Produce      json
// @Param        request body types.HealthData true "Vital signs reading"
// @Success      200 {object} types.VitalsResponse
// @Failure      400 {object} types.Response "Bad Request"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /vitals [post]
func (h *HandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VitalsHandler").Start(r.Context(), "Submit", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/vitals"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Submit"))

	var req types.HealthData
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid vital signs request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.service.Submit(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrInvalidInput) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to process vital signs", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to process vital signs")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.VitalsResponse{Status: "processed", Result: v})
}
