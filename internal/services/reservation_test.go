package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userA int64 = 1
	userB int64 = 2

	openOccurrence      int64 = 10
	cancelledOccurrence int64 = 11
)

type reservationFixture struct {
	svc          *reservationService
	tx           *fakeTx
	reservations *fakeReservationRepo
	occurrences  *fakeOccurrenceRepo
	notifier     *fakeNotifier
	publisher    *fakePublisher
	catalog      domain.CatalogService
}

// newReservationFixture builds a venue of the given capacity with one open and
// one cancelled occurrence of the same event.
func newReservationFixture(capacity int) *reservationFixture {
	reservations := newFakeReservationRepo()
	occurrences := newFakeOccurrenceRepo(reservations)
	events := newFakeEventRepo()
	users := newFakeUserRepo()

	venue := &domain.Venue{ID: 1, Name: "Teatro Verdi", Address: "Via Roma 1", Capacity: capacity}
	events.add(1, "Hamlet", venue)
	occurrences.capacity[1] = capacity
	startsAt := time.Date(2026, 11, 20, 21, 0, 0, 0, time.UTC)
	occurrences.byID[openOccurrence] = &domain.Occurrence{ID: openOccurrence, EventID: 1, StartsAt: startsAt}
	occurrences.byID[cancelledOccurrence] = &domain.Occurrence{ID: cancelledOccurrence, EventID: 1, StartsAt: startsAt, Cancelled: true}
	users.byID[userA] = &domain.User{ID: userA, FirstName: "Mario", Email: "mario@example.com"}
	users.byID[userB] = &domain.User{ID: userB, FirstName: "Anna", Email: "anna@example.com"}

	tx := &fakeTx{}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewReservationService(tx, reservations, occurrences, events, users, notifier, publisher, discardLogger(), time.Second).(*reservationService)
	svc.now = func() time.Time { return time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC) }

	return &reservationFixture{
		svc:          svc,
		tx:           tx,
		reservations: reservations,
		occurrences:  occurrences,
		notifier:     notifier,
		publisher:    publisher,
		catalog:      NewCatalogService(events, occurrences, time.Second),
	}
}

func (f *reservationFixture) available(t *testing.T) int {
	t.Helper()
	a, err := f.catalog.AvailableSeats(context.Background(), openOccurrence)
	require.NoError(t, err)
	return a.AvailableSeats()
}

func TestReservationService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		setup        func(f *reservationFixture)
		occurrenceID int64
		quantity     int
		wantErr      error
	}{
		{name: "success", occurrenceID: openOccurrence, quantity: 2},
		{
			name:         "duplicate is a conflict",
			setup:        func(f *reservationFixture) { f.reservations.add(userA, openOccurrence, 1) },
			occurrenceID: openOccurrence,
			quantity:     1,
			wantErr:      domain.ErrDuplicateReservation,
		},
		{
			name:         "duplicate check runs before occurrence lookup",
			setup:        func(f *reservationFixture) { f.reservations.add(userA, cancelledOccurrence, 1) },
			occurrenceID: cancelledOccurrence,
			quantity:     1,
			wantErr:      domain.ErrDuplicateReservation,
		},
		{
			name:         "other user's reservation is not a duplicate",
			setup:        func(f *reservationFixture) { f.reservations.add(userB, openOccurrence, 1) },
			occurrenceID: openOccurrence,
			quantity:     1,
		},
		{name: "unknown occurrence", occurrenceID: 999, quantity: 1, wantErr: domain.ErrNotFound},
		{name: "cancelled occurrence", occurrenceID: cancelledOccurrence, quantity: 1, wantErr: domain.ErrOccurrenceCancelled},
		{name: "zero quantity", occurrenceID: openOccurrence, quantity: 0, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture(50)
			if tt.setup != nil {
				tt.setup(f)
			}
			before := len(f.reservations.byID)

			res, err := f.svc.Create(ctx, userA, tt.occurrenceID, tt.quantity)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				assert.Len(t, f.reservations.byID, before, "nothing is written on failure")
				assert.Empty(t, f.publisher.events)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, res.ID)
			assert.Equal(t, userA, res.UserID)
			assert.Equal(t, tt.quantity, res.Quantity)
			assert.Equal(t, 1, f.tx.calls)
			assert.Equal(t, []string{domain.ReservationCreated}, f.publisher.types())
			require.Len(t, f.notifier.reservations, 1)
			assert.Equal(t, "Hamlet", f.notifier.reservations[0].EventName)
			assert.Equal(t, "mario@example.com", f.notifier.reservations[0].Email)
		})
	}
}

func TestReservationService_QuickCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("no duplicate check", func(t *testing.T) {
		f := newReservationFixture(50)
		first, err := f.svc.QuickCreate(ctx, userA, openOccurrence, 1)
		require.NoError(t, err)
		second, err := f.svc.QuickCreate(ctx, userA, openOccurrence, 1)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Len(t, f.reservations.byID, 2)

		_, err = f.svc.Create(ctx, userA, openOccurrence, 1)
		require.ErrorIs(t, err, domain.ErrDuplicateReservation)
	})

	t.Run("cancelled occurrence", func(t *testing.T) {
		f := newReservationFixture(50)
		_, err := f.svc.QuickCreate(ctx, userA, cancelledOccurrence, 1)
		require.ErrorIs(t, err, domain.ErrOccurrenceCancelled)
	})

	t.Run("unknown occurrence", func(t *testing.T) {
		f := newReservationFixture(50)
		_, err := f.svc.QuickCreate(ctx, userA, 999, 1)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationService_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    int64
		onOcc    int64
		quantity int
		missing  bool
		wantErr  error
	}{
		{name: "owner updates", actor: userA, onOcc: openOccurrence, quantity: 4},
		{name: "quantity stored as given", actor: userA, onOcc: openOccurrence, quantity: 0},
		{name: "foreign reservation", actor: userB, onOcc: openOccurrence, quantity: 4, wantErr: domain.ErrForbidden},
		{name: "not found", actor: userA, onOcc: openOccurrence, quantity: 4, missing: true, wantErr: domain.ErrNotFound},
		{name: "cancelled occurrence", actor: userA, onOcc: cancelledOccurrence, quantity: 4, wantErr: domain.ErrOccurrenceCancelled},
		{name: "forbidden before cancelled", actor: userB, onOcc: cancelledOccurrence, quantity: 4, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture(50)
			existing := f.reservations.add(userA, tt.onOcc, 2)
			id := existing.ID
			if tt.missing {
				id = 999
			}

			res, err := f.svc.Update(ctx, tt.actor, id, tt.quantity)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 2, f.reservations.byID[existing.ID].Quantity)
				assert.Empty(t, f.publisher.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, res.Quantity)
			assert.Equal(t, tt.quantity, f.reservations.byID[existing.ID].Quantity)
			assert.Equal(t, []string{domain.ReservationUpdated}, f.publisher.types())
		})
	}
}

func TestReservationService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   int64
		onOcc   int64
		missing bool
		wantErr error
	}{
		{name: "owner deletes", actor: userA, onOcc: openOccurrence},
		{name: "allowed on cancelled occurrence", actor: userA, onOcc: cancelledOccurrence},
		{name: "foreign reservation", actor: userB, onOcc: openOccurrence, wantErr: domain.ErrForbidden},
		{name: "not found", actor: userA, onOcc: openOccurrence, missing: true, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture(50)
			existing := f.reservations.add(userA, tt.onOcc, 2)
			id := existing.ID
			if tt.missing {
				id = 999
			}

			err := f.svc.Delete(ctx, tt.actor, id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, f.reservations.byID, existing.ID)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, f.reservations.byID, existing.ID)
			assert.Equal(t, []string{domain.ReservationDeleted}, f.publisher.types())
		})
	}
}

func TestReservationService_ListMine(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(50)
	f.reservations.add(userA, openOccurrence, 1)
	f.reservations.add(userA, cancelledOccurrence, 3)
	f.reservations.add(userB, openOccurrence, 2)

	list, err := f.svc.ListMine(ctx, userA)
	require.NoError(t, err)
	require.Len(t, list, 2, "reservations on cancelled occurrences are listed")
	assert.Equal(t, cancelledOccurrence, list[1].OccurrenceID)

	empty, err := f.svc.ListMine(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	f.reservations.listErr = errDB
	_, err = f.svc.ListMine(ctx, userA)
	require.ErrorIs(t, err, errDB)
}

func TestReservationService_SeatAccounting(t *testing.T) {
	ctx := context.Background()

	t.Run("quantity two decreases availability by two", func(t *testing.T) {
		f := newReservationFixture(50)
		before := f.available(t)
		_, err := f.svc.Create(ctx, userA, openOccurrence, 2)
		require.NoError(t, err)
		assert.Equal(t, before-2, f.available(t))
	})

	t.Run("fully booked venue still accepts reservations", func(t *testing.T) {
		f := newReservationFixture(50)
		f.reservations.add(userB, openOccurrence, 50)
		assert.Equal(t, 0, f.available(t))

		_, err := f.svc.Create(ctx, userA, openOccurrence, 1)
		require.NoError(t, err)
		assert.Equal(t, -1, f.available(t))
	})

	t.Run("update and delete adjust availability", func(t *testing.T) {
		f := newReservationFixture(50)
		res, err := f.svc.Create(ctx, userA, openOccurrence, 3)
		require.NoError(t, err)
		_, err = f.svc.Update(ctx, userA, res.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 45, f.available(t))
		require.NoError(t, f.svc.Delete(ctx, userA, res.ID))
		assert.Equal(t, 50, f.available(t))
	})
}

func TestReservationService_BestEffortSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(50)
	f.publisher.err = errors.New("broker down")
	f.notifier.err = errors.New("smtp down")

	res, err := f.svc.Create(ctx, userA, openOccurrence, 1)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Len(t, f.notifier.reservations, 1)
}

func TestReservationService_RepositoryError(t *testing.T) {
	f := newReservationFixture(50)
	f.reservations.createErr = errDB

	_, err := f.svc.Create(context.Background(), userA, openOccurrence, 1)
	require.ErrorIs(t, err, errDB)
	assert.Empty(t, f.publisher.events)
	assert.Empty(t, f.notifier.reservations)
}
