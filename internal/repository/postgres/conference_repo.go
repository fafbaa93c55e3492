package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const conferenceColumns = `websafe_key, name, description, organizer_user_id, topics, city,
		start_date, end_date, month, max_attendees, seats_available, featured_speaker,
		version, created_at, updated_at`

var conferenceQueryColumns = map[string]column{
	"name":           {name: "name"},
	"city":           {name: "city"},
	"topics":         {name: "topics", repeated: true},
	"month":          {name: "month"},
	"maxAttendees":   {name: "max_attendees"},
	"seatsAvailable": {name: "seats_available"},
}

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	var featuredNull sql.NullString
	err := row.Scan(
		&c.Key, &c.Name, &c.Description, &c.OrganizerUserID, pq.Array(&c.Topics), &c.City,
		&startNull, &endNull, &c.Month, &c.MaxAttendees, &c.SeatsAvailable, &featuredNull,
		&c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	if featuredNull.Valid {
		c.FeaturedSpeaker = &featuredNull.String
	}
	if c.Topics == nil {
		c.Topics = []string{}
	}
	return c, nil
}

func scanConferences(rows *sql.Rows) ([]*domain.Conference, error) {
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func getConference(ctx context.Context, q querier, key string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE websafe_key = $1`
	c, err := scanConference(q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// updateConference writes c if its version still matches and bumps c.Version.
func updateConference(ctx context.Context, q querier, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $3, description = $4, topics = $5, city = $6, start_date = $7, end_date = $8,
			month = $9, max_attendees = $10, seats_available = $11, featured_speaker = $12,
			version = version + 1, updated_at = NOW()
		WHERE websafe_key = $1 AND version = $2
	`
	result, err := q.ExecContext(ctx, query,
		c.Key, c.Version, c.Name, c.Description, pq.Array(c.Topics), c.City, c.StartDate, c.EndDate,
		c.Month, c.MaxAttendees, c.SeatsAvailable, nullString(c.FeaturedSpeaker),
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: conference %s", domain.ErrConcurrentModification, c.Key)
	}
	c.Version++
	return nil
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (websafe_key, name, description, organizer_user_id, topics, city,
			start_date, end_date, month, max_attendees, seats_available, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $13)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.Key, c.Name, c.Description, c.OrganizerUserID, pq.Array(c.Topics), c.City,
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	c.Version = 1
	return nil
}

func (r *conferenceRepository) GetByKey(ctx context.Context, key string) (*domain.Conference, error) {
	return getConference(ctx, r.DB, key)
}

func (r *conferenceRepository) GetMulti(ctx context.Context, keys []string) ([]*domain.Conference, error) {
	if len(keys) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE websafe_key = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	found, err := scanConferences(rows)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*domain.Conference, len(found))
	for _, c := range found {
		byKey[c.Key] = c
	}
	confs := make([]*domain.Conference, 0, len(found))
	for _, k := range keys {
		if c, ok := byKey[k]; ok {
			confs = append(confs, c)
		}
	}
	return confs, nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE organizer_user_id = $1
		ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, organizerUserID)
	if err != nil {
		return nil, err
	}
	return scanConferences(rows)
}

func (r *conferenceRepository) Query(ctx context.Context, eq, ineq []domain.Predicate, page domain.PaginationParams) ([]*domain.Conference, error) {
	preds := slices.Concat(eq, ineq)
	cond, args, next, err := whereClause(preds, conferenceQueryColumns, 1)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + conferenceColumns + ` FROM conferences`)
	if cond != "" {
		sb.WriteString(" WHERE " + cond)
	}
	// The inequality field must lead the ordering, then name.
	order := []string{"name"}
	if len(ineq) > 0 {
		col := conferenceQueryColumns[ineq[0].Field]
		if col.name != "name" {
			order = []string{col.name, "name"}
		}
	}
	sb.WriteString(" ORDER BY " + strings.Join(order, ", "))
	if page.Paged() {
		fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", next, next+1)
		args = append(args, page.PageSize, page.Offset())
	}

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	return scanConferences(rows)
}

func (r *conferenceRepository) ListNearlySoldOut(ctx context.Context, threshold int) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	return scanConferences(rows)
}

func (r *conferenceRepository) SetFeaturedSpeaker(ctx context.Context, key string, speaker *string) error {
	query := `
		UPDATE conferences
		SET featured_speaker = $2, version = version + 1, updated_at = NOW()
		WHERE websafe_key = $1
	`
	result, err := r.DB.ExecContext(ctx, query, key, nullString(speaker))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
