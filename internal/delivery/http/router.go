package http

import (
	"net/http"

	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/middleware"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Catalog     *controllers.CatalogController
	Reservation *controllers.ReservationController
	Auth        *controllers.AuthController
	Pages       *controllers.PageController
}

// NewRouter initializes the HTTP router with all application routes. Session
// loading happens outside the mux, in middleware.LoadSession.
func NewRouter(c Controllers) *http.ServeMux {
	mux := http.NewServeMux()
	api := middleware.RequireAPISession
	page := middleware.RequirePageSession

	// Catalog
	mux.HandleFunc("GET /api/events", c.Catalog.ListEvents)
	mux.HandleFunc("GET /api/events/{eventID}/occurrences", c.Catalog.GetEventOccurrences)
	mux.HandleFunc("GET /api/occurrences/{occurrenceID}/availability", c.Catalog.GetAvailability)

	// Reservations
	mux.HandleFunc("GET /api/reservations", api(c.Reservation.ListReservations))
	mux.HandleFunc("POST /api/reservations", api(c.Reservation.HandleAction))
	mux.HandleFunc("PATCH /api/reservations/{reservationID}", api(c.Reservation.UpdateReservation))
	mux.HandleFunc("DELETE /api/reservations/{reservationID}", api(c.Reservation.DeleteReservation))
	mux.HandleFunc("POST /reserve", page(c.Reservation.QuickReserve))

	// Auth
	mux.HandleFunc("POST /api/auth/register", c.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", c.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", c.Auth.Logout)

	// Pages
	mux.HandleFunc("GET /{$}", c.Pages.Home)
	mux.HandleFunc("GET /register", c.Pages.RegisterForm)
	mux.HandleFunc("POST /register", c.Pages.Register)
	mux.HandleFunc("GET /login", c.Pages.LoginForm)
	mux.HandleFunc("POST /login", c.Pages.Login)
	mux.HandleFunc("GET /logout", page(c.Pages.Logout))
	mux.HandleFunc("POST /logout", page(c.Pages.Logout))
	mux.HandleFunc("GET /reservations", page(c.Pages.MyReservations))
	mux.HandleFunc("GET /events/{eventID}", page(c.Pages.Event))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
