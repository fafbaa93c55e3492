package postgres

import (
	"context"
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var profileRowColumns = []string{
	"user_id", "display_name", "main_email", "tee_shirt_size", "conference_keys_to_attend",
	"session_wishlist", "version", "created_at", "updated_at",
}

func TestProfileRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "inserted", affected: 1},
		{name: "already exists", affected: 0, wantErr: domain.ErrConcurrentModification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			p := domain.NewProfile(domain.Identity{UserID: "u1", Email: "ada@example.com"}, now)
			mock.ExpectExec(`INSERT INTO profiles .* ON CONFLICT \(user_id\) DO NOTHING`).
				WithArgs("u1", "ada", "ada@example.com", "NOT_SPECIFIED", sqlmock.AnyArg(), sqlmock.AnyArg(), now, now).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err = NewProfileRepository(db).Create(ctx, p)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, int64(0), p.Version)
				return
			}
			require.NoError(t, err)
			require.Equal(t, int64(1), p.Version)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		affected    int64
		wantVersion int64
		wantErr     error
	}{
		{name: "version matches", affected: 1, wantVersion: 4},
		{name: "stale version", affected: 0, wantVersion: 3, wantErr: domain.ErrConcurrentModification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			p := &domain.Profile{UserID: "u1", DisplayName: "Ada", TeeShirtSize: "M_W", Version: 3}
			mock.ExpectExec(`UPDATE profiles .* WHERE user_id = \$1 AND version = \$2`).
				WithArgs("u1", int64(3), "Ada", "M_W", sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err = NewProfileRepository(db).Update(ctx, p)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantVersion, p.Version)
		})
	}
}

func TestProfileRepository_GetMulti(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM profiles WHERE user_id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).
			AddRow("u1", "Ada", "ada@example.com", "NOT_SPECIFIED", "{conf-1}", "{}", int64(1), now, now))

	got, err := NewProfileRepository(db).GetMulti(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []string{"conf-1"}, got["u1"].ConferenceKeysToAttend)
	require.Equal(t, []string{}, got["u1"].SessionWishlist)
}
