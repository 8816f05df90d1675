package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/callowayfam/reunion-api/internal/auth"
	"github.com/callowayfam/reunion-api/internal/config"
	"github.com/callowayfam/reunion-api/internal/database"
	"github.com/callowayfam/reunion-api/internal/handlers"
	"github.com/callowayfam/reunion-api/internal/logging"
	"github.com/callowayfam/reunion-api/internal/notifier"
	"github.com/callowayfam/reunion-api/internal/payments"
	"github.com/callowayfam/reunion-api/internal/reconcile"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Initialize Handlers
	discordNotifier, err := notifier.NewDiscordNotifier(cfg)
	if err != nil {
		slog.Info("discord notifier not initialized", "reason", err)
	}

	stripeClient := payments.NewClient(nil, payments.ClientConfig{
		SecretKey:     cfg.StripeSecretKey,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	verifier := payments.NewVerifier(cfg.StripeWebhookSecret)

	var n notifier.Notifier
	if discordNotifier != nil {
		n = discordNotifier
	}
	reconciler := reconcile.New(db, cfg.ReconcileMode, n)

	authHandler := auth.NewAuthHandler(cfg)
	checkoutHandler := handlers.NewCheckoutHandler(stripeClient)
	sessionHandler := handlers.NewSessionHandler(stripeClient)
	webhookHandler := handlers.NewWebhookHandler(verifier, reconciler)
	registrationsHandler := handlers.NewRegistrationsHandler(db, authHandler)
	settingsHandler := handlers.NewSettingsHandler(db, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, checkoutHandler, sessionHandler, webhookHandler, registrationsHandler, settingsHandler)

	// Start Server
	slog.Info("starting server", "port", cfg.Port, "reconcile_mode", cfg.ReconcileMode)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
