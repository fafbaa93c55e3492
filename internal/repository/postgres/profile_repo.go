package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const profileColumns = `user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend,
		session_wishlist, version, created_at, updated_at`

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.UserID, &p.DisplayName, &p.MainEmail, &p.TeeShirtSize, pq.Array(&p.ConferenceKeysToAttend),
		pq.Array(&p.SessionWishlist), &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.ConferenceKeysToAttend == nil {
		p.ConferenceKeysToAttend = []string{}
	}
	if p.SessionWishlist == nil {
		p.SessionWishlist = []string{}
	}
	return p, nil
}

func getProfile(ctx context.Context, q querier, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	p, err := scanProfile(q.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// insertProfile creates p with version 1. A profile created concurrently for
// the same user is reported as ErrConcurrentModification.
func insertProfile(ctx context.Context, q querier, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size,
			conference_keys_to_attend, session_wishlist, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
		ON CONFLICT (user_id) DO NOTHING
	`
	result, err := q.ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, p.TeeShirtSize,
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionWishlist), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: profile %s already exists", domain.ErrConcurrentModification, p.UserID)
	}
	p.Version = 1
	return nil
}

// updateProfile writes p if its version still matches and bumps p.Version.
func updateProfile(ctx context.Context, q querier, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $3, tee_shirt_size = $4, conference_keys_to_attend = $5,
			session_wishlist = $6, version = version + 1, updated_at = NOW()
		WHERE user_id = $1 AND version = $2
	`
	result, err := q.ExecContext(ctx, query,
		p.UserID, p.Version, p.DisplayName, p.TeeShirtSize,
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionWishlist),
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: profile %s", domain.ErrConcurrentModification, p.UserID)
	}
	p.Version++
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return getProfile(ctx, r.DB, userID)
}

func (r *profileRepository) GetMulti(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	profiles := make(map[string]*domain.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles[p.UserID] = p
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	return insertProfile(ctx, r.DB, p)
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	return updateProfile(ctx, r.DB, p)
}
