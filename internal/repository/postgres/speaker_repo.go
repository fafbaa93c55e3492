package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const speakerColumns = `websafe_key, name, biography, company, specialty`

var speakerQueryColumns = map[string]column{
	"name":      {name: "name"},
	"biography": {name: "biography"},
	"company":   {name: "company"},
	"specialty": {name: "specialty", repeated: true},
}

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

func scanSpeaker(row rowScanner) (*domain.Speaker, error) {
	sp := &domain.Speaker{}
	if err := row.Scan(&sp.Key, &sp.Name, &sp.Biography, &sp.Company, pq.Array(&sp.Specialty)); err != nil {
		return nil, err
	}
	if sp.Specialty == nil {
		sp.Specialty = []string{}
	}
	return sp, nil
}

func (r *speakerRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Speaker, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		sp, err := scanSpeaker(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, sp)
	}
	return speakers, rows.Err()
}

func (r *speakerRepository) Create(ctx context.Context, sp *domain.Speaker) error {
	query := `
		INSERT INTO speakers (websafe_key, name, biography, company, specialty)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, sp.Key, sp.Name, sp.Biography, sp.Company, pq.Array(sp.Specialty))
	return err
}

// GetByName returns the first speaker with the name; names are not unique.
func (r *speakerRepository) GetByName(ctx context.Context, name string) (*domain.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE name = $1 ORDER BY websafe_key LIMIT 1`
	sp, err := scanSpeaker(r.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sp, nil
}

func (r *speakerRepository) ListByCompany(ctx context.Context, company string) ([]*domain.Speaker, error) {
	return r.list(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE company = $1 ORDER BY name`, company)
}

func (r *speakerRepository) ListBySpecialty(ctx context.Context, specialty string) ([]*domain.Speaker, error) {
	return r.list(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE $1 = ANY(specialty) ORDER BY name`, specialty)
}

func (r *speakerRepository) Find(ctx context.Context, eq []domain.Predicate) ([]*domain.Speaker, error) {
	cond, args, _, err := whereClause(eq, speakerQueryColumns, 1)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(`SELECT ` + speakerColumns + ` FROM speakers`)
	if cond != "" {
		sb.WriteString(" WHERE " + cond)
	}
	sb.WriteString(" ORDER BY name, websafe_key")
	return r.list(ctx, sb.String(), args...)
}
