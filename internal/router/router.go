package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/dialogue"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/recommendation"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/vitals"
)

const defaultChatRequestsPerMinute = 30

// Config contains dependencies needed for the router setup
type Config struct {
	RecommendationHandler *recommendation.HandlerImpl
	DialogueHandler       *dialogue.HandlerImpl
	VitalsHandler         *vitals.HandlerImpl
	AllowedOrigins        []string
	// ChatRequestsPerMinute limits chat calls per client IP. Negative disables the limit.
	ChatRequestsPerMinute int
}

// SetupRouter builds the API routes. Server-wide middleware (request id, logging,
// recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", cfg.RecommendationHandler.Recommend)
		r.Post("/vitals", cfg.VitalsHandler.Submit)

		r.Route("/chat", func(r chi.Router) {
			if limit := chatLimit(cfg.ChatRequestsPerMinute); limit > 0 {
				r.Use(httprate.Limit(limit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
				))
			}
			r.Post("/", cfg.DialogueHandler.Chat)
			r.Post("/location", cfg.DialogueHandler.SubmitLocation)
			r.Get("/sessions/{id}/messages", cfg.DialogueHandler.History)
			r.Delete("/sessions/{id}", cfg.DialogueHandler.ClearSession)
		})
	})

	return r
}

func chatLimit(configured int) int {
	switch {
	case configured < 0:
		return 0
	case configured == 0:
		return defaultChatRequestsPerMinute
	default:
		return configured
	}
}
