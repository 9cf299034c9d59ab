package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

func CORS(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders: []string{
			"X-Request-Id",
			"X-Job-Id",
			"X-Input-Checksum",
			"X-Output-Checksum",
			"X-Vector-Dim",
			"X-Chunk-Count",
			"X-Model-Id",
			"X-Created-At",
		},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
