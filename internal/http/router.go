package http

import (
	"net/http"
	"os"

	"embedq/internal/blob"
	"embedq/internal/config"
	"embedq/internal/dispatch"
	"embedq/internal/http/handler"
	mw "embedq/internal/http/middleware"
	"embedq/internal/jobs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, repo *jobs.Repo, inputs, outputs *blob.Store, backend dispatch.Backend) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	jh := &handler.JobHandler{Repo: repo, Inputs: inputs, Outputs: outputs, Backend: backend}
	hh := &handler.HealthHandler{Backend: backend}

	r.Route("/api/embedding", func(r chi.Router) {
		r.Post("/submit", jh.Submit)
		r.Get("/status/{id}", jh.Status)
		r.Get("/result/{id}", jh.Result)
		r.Get("/jobs", jh.List)
		r.Get("/health", hh.Health)
	})

	// Dashboard, if a static build is present next to the binary.
	if fi, err := os.Stat("static"); err == nil && fi.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir("static")))
	} else {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}

	return r
}
