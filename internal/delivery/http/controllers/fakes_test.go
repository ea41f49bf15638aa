package controllers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"eventbooking/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testStartsAt = time.Date(2026, 11, 14, 21, 0, 0, 0, time.UTC)

func availability(id int64, cancelled bool, capacity, reserved int) *domain.OccurrenceAvailability {
	return &domain.OccurrenceAvailability{
		Occurrence: &domain.Occurrence{ID: id, EventID: 1, StartsAt: testStartsAt, Cancelled: cancelled},
		Capacity:   capacity,
		Reserved:   reserved,
	}
}

// fakeCatalogService implements domain.CatalogService for handler tests.
type fakeCatalogService struct {
	listResult         []*domain.EventListing
	listTotal          int
	listErr            error
	occurrencesResult  *domain.EventOccurrences
	occurrencesErr     error
	availabilityResult *domain.OccurrenceAvailability
	availabilityErr    error

	lastParams       domain.PaginationParams
	lastEventID      int64
	lastOccurrenceID int64
}

func (f *fakeCatalogService) ListEvents(_ context.Context, p domain.PaginationParams) ([]*domain.EventListing, int, error) {
	f.lastParams = p
	return f.listResult, f.listTotal, f.listErr
}

func (f *fakeCatalogService) GetEventOccurrences(_ context.Context, eventID int64) (*domain.EventOccurrences, error) {
	f.lastEventID = eventID
	return f.occurrencesResult, f.occurrencesErr
}

func (f *fakeCatalogService) AvailableSeats(_ context.Context, occurrenceID int64) (*domain.OccurrenceAvailability, error) {
	f.lastOccurrenceID = occurrenceID
	return f.availabilityResult, f.availabilityErr
}

// fakeReservationService implements domain.ReservationService for handler tests.
type fakeReservationService struct {
	createErr      error
	quickCreateErr error
	listResult     []*domain.ReservationDetail
	listErr        error
	updateErr      error
	deleteErr      error

	lastCall          string
	lastActorID       int64
	lastOccurrenceID  int64
	lastReservationID int64
	lastQuantity      int
}

func (f *fakeReservationService) Create(_ context.Context, actorID, occurrenceID int64, quantity int) (*domain.Reservation, error) {
	f.lastCall, f.lastActorID, f.lastOccurrenceID, f.lastQuantity = "create", actorID, occurrenceID, quantity
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Reservation{ID: 10, UserID: actorID, OccurrenceID: occurrenceID, Quantity: quantity}, nil
}

func (f *fakeReservationService) QuickCreate(_ context.Context, actorID, occurrenceID int64, quantity int) (*domain.Reservation, error) {
	f.lastCall, f.lastActorID, f.lastOccurrenceID, f.lastQuantity = "quick_create", actorID, occurrenceID, quantity
	if f.quickCreateErr != nil {
		return nil, f.quickCreateErr
	}
	return &domain.Reservation{ID: 11, UserID: actorID, OccurrenceID: occurrenceID, Quantity: quantity}, nil
}

func (f *fakeReservationService) ListMine(_ context.Context, actorID int64) ([]*domain.ReservationDetail, error) {
	f.lastCall, f.lastActorID = "list", actorID
	return f.listResult, f.listErr
}

func (f *fakeReservationService) Update(_ context.Context, actorID, reservationID int64, quantity int) (*domain.Reservation, error) {
	f.lastCall, f.lastActorID, f.lastReservationID, f.lastQuantity = "update", actorID, reservationID, quantity
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.Reservation{ID: reservationID, UserID: actorID, Quantity: quantity}, nil
}

func (f *fakeReservationService) Delete(_ context.Context, actorID, reservationID int64) error {
	f.lastCall, f.lastActorID, f.lastReservationID = "delete", actorID, reservationID
	return f.deleteErr
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	registerErr error
	loginErr    error
	logoutErr   error

	lastRegister    domain.RegisterInput
	lastLoginEmail  string
	lastLogoutToken string
}

func (f *fakeUserService) Register(_ context.Context, in domain.RegisterInput) (*domain.User, error) {
	f.lastRegister = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.User{ID: 3, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
}

func (f *fakeUserService) Login(_ context.Context, email, _ string) (*domain.Session, error) {
	f.lastLoginEmail = email
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &domain.Session{
		Token:     "tok-123",
		TokenType: "Bearer",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &domain.User{ID: 3, FirstName: "Anna", Email: email},
	}, nil
}

func (f *fakeUserService) Logout(_ context.Context, token string) error {
	f.lastLogoutToken = token
	return f.logoutErr
}

func (f *fakeUserService) Authenticate(_ context.Context, _ string) (int64, error) {
	return 3, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}
