/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     One JSON access entry per request through logrus
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the cashier/admin frontends

ROUTE GROUPS:
  /api/outlets/*          Outlets, ledger entry, reconciliation, reports
  /api/reimbursements/*   Reimbursement workflow
  /api/export             Workbook for every outlet
  /api/alerts             Low-balance outlets
  /api/scenarios/*        Demo scenarios

SECURITY NOTE:
  No authentication middleware. The X-Actor-ID header is trusted as-is
  and must be set by an upstream gateway in production.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// DefaultOrigins are the local cashier and admin frontends.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured. An empty
// origins list falls back to DefaultOrigins. Credentials are only allowed
// when every origin is listed explicitly.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&accessLogFormatter{logger: h.Logger}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", ActorHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !slices.Contains(origins, "*"),
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/outlets", func(r chi.Router) {
			r.Get("/", h.ListOutlets)
			r.Post("/", h.CreateOutlet)
			r.Get("/{id}", h.GetOutlet)
			r.Put("/{id}/initial-balance", h.UpdateInitialBalance)
			r.Post("/{id}/inflows", h.CreateInflow)
			r.Post("/{id}/outflows", h.CreateOutflow)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/reconciliation", h.GetReconciliation)
			r.Get("/{id}/report", h.GetReport)
			r.Get("/{id}/export", h.ExportOutlet)
			r.Post("/{id}/reimbursements", h.SubmitReimbursement)
		})

		r.Route("/reimbursements", func(r chi.Router) {
			r.Get("/", h.ListReimbursements)
			r.Get("/{id}", h.GetReimbursement)
			r.Post("/{id}/approve", h.ApproveReimbursement)
			r.Post("/{id}/reject", h.RejectReimbursement)
		})

		r.Get("/export", h.ExportAll)
		r.Get("/alerts", h.ListAlerts)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

// =============================================================================
// ACCESS LOG
// =============================================================================

// accessLogFormatter sends chi's request log through logrus.
type accessLogFormatter struct {
	logger logrus.FieldLogger
}

func (f *accessLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &accessLogEntry{logger: f.logger.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote":     r.RemoteAddr,
	})}
}

type accessLogEntry struct {
	logger logrus.FieldLogger
}

func (e *accessLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.logger.WithFields(logrus.Fields{
		"status":     status,
		"bytes":      bytes,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("request completed")
}

func (e *accessLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.WithFields(logrus.Fields{
		"panic": v,
		"stack": string(stack),
	}).Error("request panicked")
}
