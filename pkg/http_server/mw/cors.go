package mw

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows any method and header from the given origins. "*" allows
// every origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{HeaderXRequestID},
		AllowCredentials: true,
	})
	return c.Handler
}
