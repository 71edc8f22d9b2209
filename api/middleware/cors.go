package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Browser clients: local dev servers plus the deployed shop and admin UIs.
var allowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://shop.contentcreate.store",
	"https://admin.contentcreate.store",
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	return cors.New(opts).Handler
}
