package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type stubCatalog struct{}

func (stubCatalog) ListEvents(context.Context, domain.PaginationParams) ([]*domain.EventListing, int, error) {
	return []*domain.EventListing{}, 0, nil
}

func (stubCatalog) GetEventOccurrences(_ context.Context, id int64) (*domain.EventOccurrences, error) {
	return &domain.EventOccurrences{EventID: id, EventName: "Hamlet"}, nil
}

func (stubCatalog) AvailableSeats(_ context.Context, id int64) (*domain.OccurrenceAvailability, error) {
	return &domain.OccurrenceAvailability{Occurrence: &domain.Occurrence{ID: id}, Capacity: 10}, nil
}

type stubReservations struct{}

func (stubReservations) Create(_ context.Context, actorID, occurrenceID int64, quantity int) (*domain.Reservation, error) {
	return &domain.Reservation{ID: 1, UserID: actorID, OccurrenceID: occurrenceID, Quantity: quantity}, nil
}

func (stubReservations) QuickCreate(_ context.Context, actorID, occurrenceID int64, quantity int) (*domain.Reservation, error) {
	return &domain.Reservation{ID: 2, UserID: actorID, OccurrenceID: occurrenceID, Quantity: quantity}, nil
}

func (stubReservations) ListMine(context.Context, int64) ([]*domain.ReservationDetail, error) {
	return []*domain.ReservationDetail{}, nil
}

func (stubReservations) Update(_ context.Context, actorID, reservationID int64, quantity int) (*domain.Reservation, error) {
	return &domain.Reservation{ID: reservationID, UserID: actorID, Quantity: quantity}, nil
}

func (stubReservations) Delete(context.Context, int64, int64) error { return nil }

// stubUsers accepts the token "good" as user 1.
type stubUsers struct{}

func (stubUsers) Register(_ context.Context, in domain.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: 1, Email: in.Email}, nil
}

func (stubUsers) Login(context.Context, string, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (stubUsers) Logout(context.Context, string) error { return nil }

func (stubUsers) Authenticate(_ context.Context, token string) (int64, error) {
	if token == "good" {
		return 1, nil
	}
	return 0, domain.ErrUnauthorized
}

func (stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	pages, err := controllers.ParsePages()
	require.NoError(t, err)
	cookie := controllers.SessionCookie{Name: "session"}
	mux := NewRouter(Controllers{
		Catalog:     controllers.NewCatalogController(testLogger, stubCatalog{}),
		Reservation: controllers.NewReservationController(testLogger, stubReservations{}),
		Auth:        controllers.NewAuthController(testLogger, stubUsers{}, cookie),
		Pages:       controllers.NewPageController(testLogger, stubCatalog{}, stubReservations{}, stubUsers{}, cookie, pages),
	})
	return middleware.LoadSession(stubUsers{}, "session", testLogger, mux)
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		token        string
		wantStatus   int
		wantLocation string
	}{
		{name: "list events", method: http.MethodGet, target: "/api/events", wantStatus: http.StatusOK},
		{name: "event occurrences", method: http.MethodGet, target: "/api/events/1/occurrences", wantStatus: http.StatusOK},
		{name: "availability", method: http.MethodGet, target: "/api/occurrences/1/availability", wantStatus: http.StatusOK},
		{name: "reservations need a session", method: http.MethodGet, target: "/api/reservations", wantStatus: http.StatusUnauthorized},
		{name: "reservations with bearer", method: http.MethodGet, target: "/api/reservations", token: "good", wantStatus: http.StatusOK},
		{name: "revoked token is anonymous", method: http.MethodGet, target: "/api/reservations", token: "bad", wantStatus: http.StatusUnauthorized},
		{name: "reservation action", method: http.MethodPost, target: "/api/reservations", body: `{"action":"create","occurrence_id":1}`, token: "good", wantStatus: http.StatusCreated},
		{name: "patch reservation", method: http.MethodPatch, target: "/api/reservations/4", body: `{"quantity":2}`, token: "good", wantStatus: http.StatusOK},
		{name: "delete reservation", method: http.MethodDelete, target: "/api/reservations/4", token: "good", wantStatus: http.StatusOK},
		{name: "quick reserve redirects anonymous", method: http.MethodPost, target: "/reserve", body: `{"occurrence_id":1}`, wantStatus: http.StatusSeeOther, wantLocation: "/login?next=%2Freserve"},
		{name: "quick reserve", method: http.MethodPost, target: "/reserve", body: `{"occurrence_id":1}`, token: "good", wantStatus: http.StatusCreated},
		{name: "home page", method: http.MethodGet, target: "/", wantStatus: http.StatusOK},
		{name: "event page redirects anonymous", method: http.MethodGet, target: "/events/1", wantStatus: http.StatusSeeOther, wantLocation: "/login?next=%2Fevents%2F1"},
		{name: "event page", method: http.MethodGet, target: "/events/1", token: "good", wantStatus: http.StatusOK},
		{name: "reservations page redirects anonymous", method: http.MethodGet, target: "/reservations", wantStatus: http.StatusSeeOther, wantLocation: "/login?next=%2Freservations"},
		{name: "login page", method: http.MethodGet, target: "/login", wantStatus: http.StatusOK},
		{name: "register page", method: http.MethodGet, target: "/register", wantStatus: http.StatusOK},
		{name: "logout redirects anonymous to login", method: http.MethodGet, target: "/logout", wantStatus: http.StatusSeeOther, wantLocation: "/login?next=%2Flogout"},
		{name: "logout", method: http.MethodPost, target: "/logout", token: "good", wantStatus: http.StatusSeeOther, wantLocation: "/"},
		{name: "api login invalid credentials", method: http.MethodPost, target: "/api/auth/login", body: `{"email":"a@b.it","password":"x"}`, wantStatus: http.StatusUnauthorized},
		{name: "wrong method", method: http.MethodPut, target: "/api/reservations", token: "good", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, target: "/nope", wantStatus: http.StatusNotFound},
	}

	handler := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			}
		})
	}
}
