package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"eventbooking/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTx implements domain.Transactor by calling fn directly.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// fakeReservationRepo implements domain.ReservationRepository in memory.
type fakeReservationRepo struct {
	byID      map[int64]*domain.Reservation
	nextID    int64
	createErr error
	listErr   error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byID: make(map[int64]*domain.Reservation)}
}

func (f *fakeReservationRepo) add(userID, occurrenceID int64, quantity int) *domain.Reservation {
	f.nextID++
	r := &domain.Reservation{ID: f.nextID, UserID: userID, OccurrenceID: occurrenceID, Quantity: quantity}
	f.byID[r.ID] = r
	return r
}

func (f *fakeReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	r.ID = f.nextID
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationRepo) GetByUserAndOccurrence(ctx context.Context, userID, occurrenceID int64) (*domain.Reservation, error) {
	for _, r := range f.sorted() {
		if r.UserID == userID && r.OccurrenceID == occurrenceID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReservationRepo) ListDetailsByUserID(ctx context.Context, userID int64) ([]*domain.ReservationDetail, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.ReservationDetail
	for _, r := range f.sorted() {
		if r.UserID == userID {
			out = append(out, &domain.ReservationDetail{ID: r.ID, OccurrenceID: r.OccurrenceID, Quantity: r.Quantity})
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateQuantity(ctx context.Context, id int64, quantity int, updatedAt time.Time) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Quantity = quantity
	r.UpdatedAt = updatedAt
	return nil
}

func (f *fakeReservationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReservationRepo) sorted() []*domain.Reservation {
	out := make([]*domain.Reservation, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeReservationRepo) reservedFor(occurrenceID int64) int {
	sum := 0
	for _, r := range f.byID {
		if r.OccurrenceID == occurrenceID {
			sum += r.Quantity
		}
	}
	return sum
}

// fakeOccurrenceRepo implements domain.OccurrenceRepository. Availability is
// derived from the reservations fake so seat accounting can be asserted end to end.
type fakeOccurrenceRepo struct {
	byID         map[int64]*domain.Occurrence
	capacity     map[int64]int // by event id
	reservations *fakeReservationRepo
	err          error
}

func newFakeOccurrenceRepo(reservations *fakeReservationRepo) *fakeOccurrenceRepo {
	return &fakeOccurrenceRepo{
		byID:         make(map[int64]*domain.Occurrence),
		capacity:     make(map[int64]int),
		reservations: reservations,
	}
}

func (f *fakeOccurrenceRepo) GetByID(ctx context.Context, id int64) (*domain.Occurrence, error) {
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOccurrenceRepo) availability(o *domain.Occurrence) *domain.OccurrenceAvailability {
	cp := *o
	return &domain.OccurrenceAvailability{
		Occurrence: &cp,
		Capacity:   f.capacity[o.EventID],
		Reserved:   f.reservations.reservedFor(o.ID),
	}
}

func (f *fakeOccurrenceRepo) GetAvailability(ctx context.Context, id int64) (*domain.OccurrenceAvailability, error) {
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.availability(o), nil
}

func (f *fakeOccurrenceRepo) ListAvailabilityByEventIDs(ctx context.Context, eventIDs []int64) (map[int64][]*domain.OccurrenceAvailability, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[int64]bool, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = true
	}
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make(map[int64][]*domain.OccurrenceAvailability)
	for _, id := range ids {
		o := f.byID[id]
		if want[o.EventID] {
			out[o.EventID] = append(out[o.EventID], f.availability(o))
		}
	}
	return out, nil
}

// fakeEventRepo implements domain.EventRepository.
type fakeEventRepo struct {
	byID     map[int64]*domain.EventWithVenue
	countErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[int64]*domain.EventWithVenue)}
}

func (f *fakeEventRepo) add(id int64, name string, venue *domain.Venue) {
	f.byID[id] = &domain.EventWithVenue{
		Event: &domain.Event{ID: id, VenueID: venue.ID, Name: name},
		Venue: venue,
	}
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.EventWithVenue, error) {
	ev, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (f *fakeEventRepo) List(ctx context.Context, p domain.PaginationParams) ([]*domain.EventWithVenue, error) {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []*domain.EventWithVenue
	for i, id := range ids {
		if i >= p.Offset() && len(out) < p.PageSize {
			out = append(out, f.byID[id])
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Count(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.byID), nil
}

// fakeUserRepo implements domain.UserRepository.
type fakeUserRepo struct {
	byID      map[int64]*domain.User
	nextID    int64
	getErr    error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	saltErr error
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokens implements domain.TokenIssuer and domain.TokenVerifier. Tokens look
// like "token-<userID>-<n>".
type fakeTokens struct {
	issued   int
	issueErr error
	expiry   time.Time
}

func (f *fakeTokens) Issue(userID int64, email string, expiry time.Duration) (string, *domain.SessionClaims, error) {
	if f.issueErr != nil {
		return "", nil, f.issueErr
	}
	f.issued++
	tokenID := strconv.Itoa(f.issued)
	f.expiry = time.Now().Add(expiry)
	return "token-" + strconv.FormatInt(userID, 10) + "-" + tokenID, &domain.SessionClaims{
		UserID: userID, Email: email, TokenID: tokenID, ExpiresAt: f.expiry,
	}, nil
}

func (f *fakeTokens) Verify(token string) (*domain.SessionClaims, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 3 || parts[0] != "token" {
		return nil, domain.ErrUnauthorized
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &domain.SessionClaims{UserID: id, TokenID: parts[2], ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// fakeRevoker implements domain.TokenRevoker.
type fakeRevoker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[tokenID], nil
}

// fakeNotifier implements domain.NotificationService.
type fakeNotifier struct {
	welcome      []*domain.WelcomeEmailData
	reservations []*domain.ReservationEmailData
	err          error
}

func (f *fakeNotifier) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeNotifier) SendReservationConfirmation(ctx context.Context, data *domain.ReservationEmailData) error {
	f.reservations = append(f.reservations, data)
	return f.err
}

// fakePublisher implements domain.ReservationEventPublisher.
type fakePublisher struct {
	events []*domain.ReservationEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, ev *domain.ReservationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) types() []string {
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

var errDB = errors.New("db unavailable")
