package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// Reasons reported for wishlist keys that could not be resolved.
const (
	skipMalformedKey   = "malformed session key"
	skipSessionMissing = "session not found"
)

type profileService struct {
	profiles domain.ProfileRepository
	sessions domain.SessionRepository
	tx       domain.Transactor
	retry    RetryPolicy
	logger   *slog.Logger
	now      func() time.Time
}

// NewProfileService creates a ProfileService. Profile writes run in
// transactions so they never overwrite a concurrent registration change.
func NewProfileService(
	profiles domain.ProfileRepository,
	sessions domain.SessionRepository,
	tx domain.Transactor,
	retry RetryPolicy,
	logger *slog.Logger,
) domain.ProfileService {
	return &profileService{
		profiles: profiles,
		sessions: sessions,
		tx:       tx,
		retry:    retry,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *profileService) GetProfile(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return ensureProfile(ctx, s.profiles, identity, s.now())
}

func (s *profileService) SaveProfile(ctx context.Context, identity domain.Identity, in domain.ProfileInput) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	var size string
	if in.TeeShirtSize != nil {
		size = strings.ToUpper(strings.TrimSpace(*in.TeeShirtSize))
		if !slices.Contains(domain.TeeShirtSizes, size) {
			return nil, fmt.Errorf("%w: teeShirtSize must be one of %s", domain.ErrInvalidInput, strings.Join(domain.TeeShirtSizes, ", "))
		}
	}

	return s.update(ctx, identity, func(p *domain.Profile) error {
		if in.DisplayName != nil && strings.TrimSpace(*in.DisplayName) != "" {
			p.DisplayName = strings.TrimSpace(*in.DisplayName)
		}
		if size != "" {
			p.TeeShirtSize = size
		}
		return nil
	})
}

func (s *profileService) ToggleWishlist(ctx context.Context, identity domain.Identity, sessionKey string) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := domain.DecodeKeyOfKind(sessionKey, domain.KindSession); err != nil {
		return nil, err
	}
	_, err := s.sessions.GetByKey(ctx, sessionKey)
	missing := errors.Is(err, domain.ErrNotFound)
	if err != nil && !missing {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s.update(ctx, identity, func(p *domain.Profile) error {
		// A deleted session can still be taken off the wishlist.
		if missing && !slices.Contains(p.SessionWishlist, sessionKey) {
			return fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionKey)
		}
		p.ToggleWishlist(sessionKey)
		return nil
	})
}

func (s *profileService) ListWishlist(ctx context.Context, identity domain.Identity) ([]domain.WishlistItem, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.profiles.GetByUserID(ctx, identity.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.WishlistItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	items := make([]domain.WishlistItem, len(profile.SessionWishlist))
	valid := make([]string, 0, len(profile.SessionWishlist))
	for i, key := range profile.SessionWishlist {
		items[i].Key = key
		if _, err := domain.DecodeKeyOfKind(key, domain.KindSession); err != nil {
			items[i].Skipped = skipMalformedKey
			s.logger.Warn("skipping wishlist key", "user_id", identity.UserID, "key", key, "reason", skipMalformedKey, "error", err)
			continue
		}
		valid = append(valid, key)
	}

	sessions, err := s.sessions.GetMulti(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	byKey := make(map[string]*domain.Session, len(sessions))
	for _, sess := range sessions {
		byKey[sess.Key] = sess
	}
	for i := range items {
		if items[i].Skipped != "" {
			continue
		}
		sess, ok := byKey[items[i].Key]
		if !ok {
			items[i].Skipped = skipSessionMissing
			s.logger.Warn("skipping wishlist key", "user_id", identity.UserID, "key", items[i].Key, "reason", skipSessionMissing)
			continue
		}
		items[i].Session = sess
	}
	return items, nil
}

// update applies mutate to the caller's profile (created if missing) inside a
// retried transaction.
func (s *profileService) update(ctx context.Context, identity domain.Identity, mutate func(*domain.Profile) error) (*domain.Profile, error) {
	return retryOnConflict(ctx, s.retry, func(ctx context.Context) (*domain.Profile, error) {
		var saved *domain.Profile
		err := s.tx.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
			p, err := tx.GetProfile(ctx, identity.UserID)
			if errors.Is(err, domain.ErrNotFound) {
				p = domain.NewProfile(identity, s.now())
			} else if err != nil {
				return fmt.Errorf("get profile: %w", err)
			}
			if err := mutate(p); err != nil {
				return err
			}
			p.UpdatedAt = s.now()
			if err := tx.SaveProfile(ctx, p); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
			saved = p
			return nil
		})
		return saved, err
	})
}
