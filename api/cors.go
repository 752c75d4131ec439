package api

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
)

// WithCORS lets browser clients on the given origins call the API.
func WithCORS(next http.Handler, origins []string) http.Handler {
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "X-Request-ID"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	exposed := gorillahandlers.ExposedHeaders([]string{"X-Request-ID"})
	return gorillahandlers.CORS(headers, methods, exposed, gorillahandlers.AllowedOrigins(origins))(next)
}
