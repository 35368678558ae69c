package recommendation

import (
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

// Recommend godoc
// @Summary      Recommend activities for a profile
// @Description  Runs the recommendation engine directly on the given profile, without a chat session.
// @Tags         Recommendations
// @Accept       json
// @Produce      json
// @Param        request body types.RecommendationRequest true "Profile and optional result count"
// @Success      200 {object} types.RecommendationResponse
// @Failure      400 {object} types.Response "Bad Request"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /recommendations [post]
func (h *HandlerImpl) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "Recommend", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommendations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Recommend"))

	var req types.RecommendationRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid recommendation request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.service.Recommend(ctx, req.Profile, types.RecommendOptions{K: req.K})
	if err != nil {
		l.ErrorContext(ctx, "Failed to compute recommendations", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute recommendations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.RecommendationResponse{Results: results})
}
