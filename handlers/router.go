package handlers

import (
	"github.com/go-chi/chi/v5"
)

// NewAPIRouter mounts every /api route with its auth and role gates. The
// caller mounts the result under /api and wraps it with the transport
// middleware stack (logging, CORS, timeouts).
func NewAPIRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	sectorHandler *SectorHandler,
	graveHandler *GraveHandler,
	deceasedHandler *DeceasedHandler,
	jwtSecret string,
) chi.Router {
	auth := AuthMiddleware(jwtSecret)

	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(auth).Get("/me", authHandler.CurrentUser)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(auth)
		r.With(RequireAdmin).Get("/", userHandler.ListUsers)
		r.Get("/{user_id}", userHandler.GetUser)
		r.Put("/{user_id}", userHandler.UpdateUser)
		r.Put("/{user_id}/change-password", userHandler.ChangePassword)
		r.With(RequireAdmin).Delete("/{user_id}", userHandler.DeleteUser)
	})

	r.Route("/sectors", func(r chi.Router) {
		r.Get("/", sectorHandler.ListSectors)
		r.Get("/{sector_id}", sectorHandler.GetSector)
		r.Get("/{sector_id}/graves", sectorHandler.ListSectorGraves)
	})

	r.Route("/graves", func(r chi.Router) {
		r.Get("/search", graveHandler.SearchGraves)
		r.With(auth).Get("/user/{user_id}", graveHandler.ListGravesForUser)
		r.Route("/{grave_id}", func(r chi.Router) {
			r.Get("/", graveHandler.GetGrave)
			r.With(auth, RequireAdmin).Put("/", graveHandler.UpdateGrave)
			r.Get("/deceased", graveHandler.ListGraveDeceased)
			r.With(auth, RequireAdmin).Put("/contact-person", graveHandler.SetContactPerson)
			r.With(auth).Get("/contact-person", graveHandler.GetContactPerson)
		})
	})

	r.Route("/deceased", func(r chi.Router) {
		r.Get("/", deceasedHandler.ListDeceased)
		r.Get("/search", deceasedHandler.SearchDeceased)
		r.With(auth, RequireAdmin).Post("/", deceasedHandler.CreateDeceased)
		r.Route("/{deceased_id}", func(r chi.Router) {
			r.Get("/", deceasedHandler.GetDeceased)
			r.With(auth, RequireAdmin).Put("/", deceasedHandler.UpdateDeceased)
			r.With(auth, RequireAdmin).Delete("/", deceasedHandler.DeleteDeceased)
		})
	})

	return r
}
