package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"conferencecentral/internal/domain"
)

var tracer = otel.Tracer("conferencecentral/internal/services")

type inventoryService struct {
	tx     domain.Transactor
	retry  RetryPolicy
	logger *slog.Logger
	now    func() time.Time
}

// NewInventoryService creates an InventoryService running each registration
// change as one transaction over the profile and the conference.
func NewInventoryService(tx domain.Transactor, retry RetryPolicy, logger *slog.Logger) domain.InventoryService {
	return &inventoryService{
		tx:     tx,
		retry:  retry,
		logger: logger,
		now:    time.Now,
	}
}

func (s *inventoryService) Register(ctx context.Context, identity domain.Identity, conferenceKey string) (bool, error) {
	return s.run(ctx, "inventory.Register", identity, conferenceKey, func(ctx context.Context, tx domain.Tx) (bool, error) {
		profile, err := s.loadProfile(ctx, tx, identity)
		if err != nil {
			return false, err
		}
		conf, err := loadConference(ctx, tx, conferenceKey)
		if err != nil {
			return false, err
		}
		if profile.IsAttending(conf.Key) {
			return false, domain.ErrAlreadyRegistered
		}
		if conf.SeatsAvailable <= 0 {
			return false, domain.ErrNoSeatsAvailable
		}

		profile.AddConference(conf.Key)
		conf.SeatsAvailable--
		if err := tx.SaveProfile(ctx, profile); err != nil {
			return false, fmt.Errorf("save profile: %w", err)
		}
		if err := tx.SaveConference(ctx, conf); err != nil {
			return false, fmt.Errorf("save conference: %w", err)
		}
		return true, nil
	})
}

func (s *inventoryService) Unregister(ctx context.Context, identity domain.Identity, conferenceKey string) (bool, error) {
	return s.run(ctx, "inventory.Unregister", identity, conferenceKey, func(ctx context.Context, tx domain.Tx) (bool, error) {
		conf, err := loadConference(ctx, tx, conferenceKey)
		if err != nil {
			return false, err
		}
		profile, err := tx.GetProfile(ctx, identity.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("get profile: %w", err)
		}
		if !profile.RemoveConference(conf.Key) {
			return false, nil
		}

		if err := tx.SaveProfile(ctx, profile); err != nil {
			return false, fmt.Errorf("save profile: %w", err)
		}
		if conf.SeatsAvailable >= conf.MaxAttendees {
			s.logger.Warn("seat counter already at capacity on unregister",
				"conference_key", conf.Key, "seats_available", conf.SeatsAvailable, "max_attendees", conf.MaxAttendees)
			return true, nil
		}
		conf.SeatsAvailable++
		if err := tx.SaveConference(ctx, conf); err != nil {
			return false, fmt.Errorf("save conference: %w", err)
		}
		return true, nil
	})
}

func (s *inventoryService) run(ctx context.Context, name string, identity domain.Identity, conferenceKey string, fn func(ctx context.Context, tx domain.Tx) (bool, error)) (bool, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()
	span.SetAttributes(attribute.String("conference.key", conferenceKey))

	if identity.UserID == "" {
		return false, domain.ErrUnauthorized
	}
	if _, err := domain.DecodeKeyOfKind(conferenceKey, domain.KindConference); err != nil {
		return false, err
	}

	attempt := 0
	ok, err := retryOnConflict(ctx, s.retry, func(ctx context.Context) (bool, error) {
		attempt++
		var result bool
		err := s.tx.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
			var err error
			result, err = fn(ctx, tx)
			return err
		})
		if errors.Is(err, domain.ErrConcurrentModification) {
			s.logger.Debug("registration transaction lost a race",
				"op", name, "conference_key", conferenceKey, "attempt", attempt, "error", err)
		}
		return result, err
	})
	span.SetAttributes(attribute.Int("tx.attempts", attempt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return ok, nil
}

// loadProfile returns the caller's profile, or a new unsaved one created
// inside the same transaction.
func (s *inventoryService) loadProfile(ctx context.Context, tx domain.Tx, identity domain.Identity) (*domain.Profile, error) {
	profile, err := tx.GetProfile(ctx, identity.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewProfile(identity, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func loadConference(ctx context.Context, tx domain.Tx, key string) (*domain.Conference, error) {
	conf, err := tx.GetConference(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return conf, nil
}
