package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventbooking/internal/domain"
)

type reservationService struct {
	tx             domain.Transactor
	reservations   domain.ReservationRepository
	occurrences    domain.OccurrenceRepository
	events         domain.EventRepository
	users          domain.UserRepository
	notifier       domain.NotificationService
	publisher      domain.ReservationEventPublisher
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewReservationService wires the reservation command handler. notifier and
// publisher may be nil.
func NewReservationService(tx domain.Transactor,
	reservations domain.ReservationRepository,
	occurrences domain.OccurrenceRepository,
	events domain.EventRepository,
	users domain.UserRepository,
	notifier domain.NotificationService,
	publisher domain.ReservationEventPublisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ReservationService {
	return &reservationService{
		tx:             tx,
		reservations:   reservations,
		occurrences:    occurrences,
		events:         events,
		users:          users,
		notifier:       notifier,
		publisher:      publisher,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	return nil
}

// bookableOccurrence loads the occurrence and rejects cancelled ones.
func (s *reservationService) bookableOccurrence(ctx context.Context, occurrenceID int64) (*domain.Occurrence, error) {
	occ, err := s.occurrences.GetByID(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("get occurrence %d: %w", occurrenceID, err)
	}
	if occ.Cancelled {
		return nil, domain.ErrOccurrenceCancelled
	}
	return occ, nil
}

func (s *reservationService) Create(ctx context.Context, actorID, occurrenceID int64, quantity int) (*domain.Reservation, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var res *domain.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.reservations.GetByUserAndOccurrence(ctx, actorID, occurrenceID)
		switch {
		case err == nil:
			return domain.ErrDuplicateReservation
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("check existing reservation: %w", err)
		}
		if _, err := s.bookableOccurrence(ctx, occurrenceID); err != nil {
			return err
		}
		res = domain.NewReservation(actorID, occurrenceID, quantity, s.now())
		if err := s.reservations.Create(ctx, res); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCreate(ctx, res)
	return res, nil
}

func (s *reservationService) QuickCreate(ctx context.Context, actorID, occurrenceID int64, quantity int) (*domain.Reservation, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var res *domain.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.bookableOccurrence(ctx, occurrenceID); err != nil {
			return err
		}
		res = domain.NewReservation(actorID, occurrenceID, quantity, s.now())
		if err := s.reservations.Create(ctx, res); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCreate(ctx, res)
	return res, nil
}

func (s *reservationService) ListMine(ctx context.Context, actorID int64) ([]*domain.ReservationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.reservations.ListDetailsByUserID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	if list == nil {
		list = []*domain.ReservationDetail{}
	}
	return list, nil
}

// ownedReservation loads the reservation and checks it belongs to actorID.
func (s *reservationService) ownedReservation(ctx context.Context, actorID, reservationID int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("get reservation %d: %w", reservationID, err)
	}
	if res.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

// Update overwrites the quantity. The new value is stored as given.
func (s *reservationService) Update(ctx context.Context, actorID, reservationID int64, quantity int) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var res *domain.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.ownedReservation(ctx, actorID, reservationID)
		if err != nil {
			return err
		}
		if _, err := s.bookableOccurrence(ctx, res.OccurrenceID); err != nil {
			return err
		}
		res.Quantity = quantity
		res.UpdatedAt = s.now()
		if err := s.reservations.UpdateQuantity(ctx, res.ID, res.Quantity, res.UpdatedAt); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.ReservationUpdated, res)
	return res, nil
}

// Delete removes the reservation. Reservations on cancelled occurrences can be deleted.
func (s *reservationService) Delete(ctx context.Context, actorID, reservationID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var res *domain.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.ownedReservation(ctx, actorID, reservationID)
		if err != nil {
			return err
		}
		if err := s.reservations.Delete(ctx, res.ID); err != nil {
			return fmt.Errorf("delete reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, domain.ReservationDeleted, res)
	return nil
}

func (s *reservationService) afterCreate(ctx context.Context, res *domain.Reservation) {
	s.publish(ctx, domain.ReservationCreated, res)
	if s.notifier == nil {
		return
	}
	if err := s.sendConfirmation(ctx, res); err != nil {
		s.logger.WarnContext(ctx, "reservation confirmation not sent", "reservation_id", res.ID, "err", err)
	}
}

func (s *reservationService) sendConfirmation(ctx context.Context, res *domain.Reservation) error {
	user, err := s.users.GetByID(ctx, res.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	occ, err := s.occurrences.GetByID(ctx, res.OccurrenceID)
	if err != nil {
		return fmt.Errorf("get occurrence: %w", err)
	}
	ev, err := s.events.GetByID(ctx, occ.EventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	return s.notifier.SendReservationConfirmation(ctx, &domain.ReservationEmailData{
		Email:         user.Email,
		FirstName:     user.FirstName,
		ReservationID: res.ID,
		EventName:     ev.Event.Name,
		VenueName:     ev.Venue.Name,
		StartsAt:      occ.StartsAt,
		Quantity:      res.Quantity,
	})
}

// publish is best effort: failures are logged and never returned.
func (s *reservationService) publish(ctx context.Context, eventType string, res *domain.Reservation) {
	if s.publisher == nil {
		return
	}
	ev := &domain.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		UserID:        res.UserID,
		OccurrenceID:  res.OccurrenceID,
		Quantity:      res.Quantity,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "reservation event not published", "type", eventType, "reservation_id", res.ID, "err", err)
	}
}
