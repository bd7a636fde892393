package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	searchHandler "github.com/shopvoice/backend/internal/handler/search"
	middlewarePkg "github.com/shopvoice/backend/internal/middleware"
	"github.com/shopvoice/backend/internal/model/catalog"
	"github.com/shopvoice/backend/internal/service/query"
	"github.com/shopvoice/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(orchestrator *query.Orchestrator, store catalog.Store, audio searchHandler.AudioProvider) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	h := searchHandler.New(orchestrator, store, audio)

	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
