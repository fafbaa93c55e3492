package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"conferencecentral/internal/domain"
)

// Transactor runs functions in SERIALIZABLE transactions. Rows carry a version
// column; writes check it so a stale read fails the attempt instead of
// overwriting a concurrent change.
type Transactor struct {
	DB *sql.DB
}

func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{DB: db}
}

var _ domain.Transactor = (*Transactor)(nil)

func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	sqlTx, err := t.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return storeError(ctx, fmt.Errorf("begin tx: %w", err))
	}
	if err := fn(ctx, &pgTx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return storeError(ctx, err)
	}
	if err := sqlTx.Commit(); err != nil {
		return storeError(ctx, fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return getProfile(ctx, t.tx, userID)
}

func (t *pgTx) GetConference(ctx context.Context, key string) (*domain.Conference, error) {
	return getConference(ctx, t.tx, key)
}

func (t *pgTx) SaveProfile(ctx context.Context, p *domain.Profile) error {
	if p.Version == 0 {
		return insertProfile(ctx, t.tx, p)
	}
	return updateProfile(ctx, t.tx, p)
}

func (t *pgTx) SaveConference(ctx context.Context, c *domain.Conference) error {
	return updateConference(ctx, t.tx, c)
}
