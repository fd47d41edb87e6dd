package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/kash05/court-connect/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	props := NewPropertyService(deps.Properties, deps.Broker, logger)
	bookings := NewBookingService(deps.Bookings, deps.Properties, deps.Broker, logger, deps.Location)
	auth := authMiddleware(deps.Tokens, deps.Users)
	owner := requireRole(RoleOwner)
	player := requireRole(RolePlayer)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("CourtConnect API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Post("/api/auth/register", handleRegister(deps.Users))
	r.Post("/api/auth/login", handleLogin(deps.Users, deps.Tokens))
	r.With(auth).Post("/api/auth/logout", handleLogout(deps.Users))
	r.With(auth).Get("/api/users/me", handleMe(deps.Users))
	r.Get("/api/users/roles", handleRoles())

	// Property wizard sessions, one per listing being created.
	r.Route("/api/wizards", func(r chi.Router) {
		r.Use(auth, owner)
		r.Post("/", handleCreateWizard(deps.Wizards, props))
		r.Get("/{id}", handleGetWizard(deps.Wizards))
		r.Delete("/{id}", handleDeleteWizard(deps.Wizards))
		r.Patch("/{id}/fields", handleUpdateWizardField(deps.Wizards))
		r.Post("/{id}/opening-hours/apply", handleApplyOpeningHours(deps.Wizards))
		r.Post("/{id}/next", handleWizardNext(deps.Wizards))
		r.Post("/{id}/back", handleWizardBack(deps.Wizards))
	})

	r.Route("/api/properties", func(r chi.Router) {
		// EventSource cannot send headers; the stream checks a query token.
		r.Get("/events", handleEvents(deps.Tokens, deps.Users, deps.Broker))

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/search", handleSearchProperties(deps.Properties))
			r.Get("/{id}", handleGetProperty(deps.Properties))
			r.With(owner).Post("/", handleCreateProperty(props))
			r.With(owner).Get("/mine", handleMyProperties(deps.Properties))
			r.With(owner).Put("/{id}", handleUpdateProperty(props))
		})
	})

	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(auth)
		r.With(player).Post("/", handleCreateBooking(bookings))
		r.With(player).Get("/mine", handleMyBookings(deps.Bookings))
		r.With(owner).Get("/property/{id}", handlePropertyBookings(bookings))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
