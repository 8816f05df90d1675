package handlers

import (
	"net/http"

	"github.com/callowayfam/reunion-api/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	checkoutHandler *CheckoutHandler,
	sessionHandler *SessionHandler,
	webhookHandler *WebhookHandler,
	registrationsHandler *RegistrationsHandler,
	settingsHandler *SettingsHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Reunion Registration API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Payment flow
	huma.Post(api, "/checkout", checkoutHandler.HandleCheckout)
	huma.Get(api, "/session", sessionHandler.HandleSession)
	huma.Post(api, "/webhook", webhookHandler.HandleWebhook)

	// Public page visibility
	huma.Get(api, "/settings/pages", settingsHandler.HandleList)

	// Admin
	huma.Post(api, "/admin/login", authHandler.HandleLogin)
	huma.Get(api, "/registrations", registrationsHandler.HandleList, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})
	huma.Put(api, "/admin/settings/pages/{slug}", settingsHandler.HandleUpdate, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})
}
