// Package httptransport wires the HTTP surface: the public login route, the
// gated API routes and the operational endpoints. All authorization decisions
// live in the gate middleware; handlers assume the principal is already
// attached.
package httptransport

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vigirisco/internal/audit"
	authhandler "vigirisco/internal/auth/handler"
	monitorhandler "vigirisco/internal/monitor/handler"
	"vigirisco/internal/platform/middleware"
	"vigirisco/pkg/domain"
	"vigirisco/pkg/platform/httputil"
)

// Deps carries everything the router needs. The token decoder is the only
// authentication dependency; handlers never see raw tokens.
type Deps struct {
	Logger     *slog.Logger
	Decoder    middleware.TokenDecoder
	Auth       *authhandler.Handler
	Monitor    *monitorhandler.Handler
	AuditStore audit.Store
	DB         *sql.DB
}

// New assembles the router.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))

	r.Get("/healthz", healthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authenticate := middleware.Authenticate(deps.Decoder, deps.Logger)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", deps.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.With(requireAdmin).Post("/register", deps.Auth.Register)
			r.With(requireAdmin).Get("/auditoria", listAuditHandler(deps.AuditStore, deps.Logger))

			r.Route("/rumores", func(r chi.Router) {
				r.Get("/", deps.Monitor.ListRumores)
				r.Post("/", deps.Monitor.CreateRumor)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deps.Monitor.GetRumor)
					r.Put("/", deps.Monitor.UpdateRumor)
					r.Delete("/", deps.Monitor.DeleteRumor)
					r.Post("/avaliacao", deps.Monitor.AssessRumor)
					r.Get("/avaliacoes", deps.Monitor.ListAvaliacoes)
				})
			})

			r.Route("/comunicacoes", func(r chi.Router) {
				r.Get("/", deps.Monitor.ListComunicacoes)
				r.Post("/", deps.Monitor.CreateComunicacao)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deps.Monitor.GetComunicacao)
					r.Put("/", deps.Monitor.UpdateComunicacao)
					r.Delete("/", deps.Monitor.DeleteComunicacao)
				})
			})
		})
	})

	return r
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
