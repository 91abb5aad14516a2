package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stride-hq/stride/pkg/usecase"
	"github.com/stride-hq/stride/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(actorMiddleware)

		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/backlog", s.getBacklog)
			r.Post("/items", s.createWorkItem)
			r.Put("/backlog/order", s.reorderBacklog)
			r.Get("/iterations", s.listIterations)
			r.Post("/iterations", s.createIteration)
			r.Get("/iterations/active", s.activeIteration)
		})

		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Get("/", s.getWorkItem)
			r.Patch("/", s.updateWorkItem)
			r.Delete("/", s.deleteWorkItem)
			r.Post("/accept", s.acceptItem)
			r.Post("/reject", s.rejectItem)
		})

		r.Route("/iterations/{iterationID}", func(r chi.Router) {
			r.Get("/", s.getIteration)
			r.Post("/start", s.startIteration)
			r.Post("/end", s.endIteration)
			r.Post("/cancel", s.cancelIteration)
			r.Get("/board", s.getBoard)

			r.Route("/items/{itemID}", func(r chi.Router) {
				r.Delete("/", s.removeItem)
				r.Post("/move", s.moveColumn)
				r.Post("/admission", s.requestAdmission)
				r.Post("/decision", s.recordDecision)
				r.Get("/approvals", s.listApprovals)
			})
		})

		r.Get("/approvals/pending", s.pendingApprovals)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
