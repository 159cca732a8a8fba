package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/shopfloor-tasks/api"
	"github.com/frahmantamala/shopfloor-tasks/internal/activity"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport/middleware"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport/swagger"
	"github.com/frahmantamala/shopfloor-tasks/internal/user"
	"github.com/frahmantamala/shopfloor-tasks/internal/workorder"
	"github.com/go-chi/chi"
)

// WorkerRole is the only role admitted to the task routes.
const WorkerRole = "worker"

type Routes struct {
	Health    *HealthHandler
	User      *user.Handler
	WorkOrder *workorder.Handler
	Activity  *activity.Handler

	RoleGate *middleware.RoleGate
	// Validator is optional; nil skips request validation.
	Validator      *middleware.OpenAPIValidator
	AllowedOrigins []string
}

func RegisterAllRoutes(router *chi.Mux, routes Routes, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(routes.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if routes.Health != nil {
		router.Get("/health", routes.Health.liveness)
		router.Get("/health/ready", routes.Health.readiness)
	}

	// Serve OpenAPI document at root (outside API prefix)
	router.Get(swagger.DocURL, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Validation runs after the role gate so a missing role is still FORBIDDEN_ROLE.
	validate := func(next http.Handler) http.Handler { return next }
	if routes.Validator != nil {
		validate = routes.Validator.Middleware
	}

	router.Route("/api", func(r chi.Router) {
		if routes.User != nil {
			r.With(validate).Post("/login", routes.User.Login)
		}

		r.Group(func(wr chi.Router) {
			wr.Use(routes.RoleGate.RequireRole(WorkerRole))
			wr.Use(validate)

			if routes.WorkOrder != nil {
				wr.Get("/work-orders", routes.WorkOrder.ListWorkOrders)
				wr.Route("/tasks", func(tr chi.Router) {
					tr.Post("/start", routes.WorkOrder.StartTask)               // POST /api/tasks/start
					tr.Post("/updateQuantity", routes.WorkOrder.UpdateQuantity) // POST /api/tasks/updateQuantity
					tr.Post("/done", routes.WorkOrder.DoneTask)                 // POST /api/tasks/done
					if routes.Activity != nil {
						tr.Get("/{row}/activity", routes.Activity.ListTaskActivity)
					}
				})
			}
		})
	})
}
