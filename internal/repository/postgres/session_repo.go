package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const sessionColumns = `websafe_key, conference_key, name, highlights, speakers, duration_minutes,
		type_of_session, date, start_time, created_at`

var sessionQueryColumns = map[string]column{
	"name":          {name: "name"},
	"highlights":    {name: "highlights"},
	"speaker":       {name: "speakers", repeated: true},
	"duration":      {name: "duration_minutes"},
	"typeOfSession": {name: "type_of_session"},
	"date":          {name: "date"},
	"startTime":     {name: "start_time"},
	"conferenceKey": {name: "conference_key"},
}

type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &SessionRepository{
		DB: db,
	}
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var dateNull sql.NullTime
	var startNull sql.NullString
	err := row.Scan(
		&s.Key, &s.ConferenceKey, &s.Name, &s.Highlights, pq.Array(&s.Speakers), &s.DurationMinutes,
		&s.TypeOfSession, &dateNull, &startNull, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dateNull.Valid {
		s.Date = &dateNull.Time
	}
	if startNull.Valid {
		s.StartTime = startNull.String
	}
	if s.Speakers == nil {
		s.Speakers = []string{}
	}
	return s, nil
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (websafe_key, conference_key, name, highlights, speakers, duration_minutes,
			type_of_session, date, start_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	var start *string
	if s.StartTime != "" {
		start = &s.StartTime
	}
	_, err := r.DB.ExecContext(ctx, query,
		s.Key, s.ConferenceKey, s.Name, s.Highlights, pq.Array(s.Speakers), s.DurationMinutes,
		s.TypeOfSession, s.Date, nullString(start), s.CreatedAt,
	)
	return err
}

func (r *SessionRepository) GetByKey(ctx context.Context, key string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE websafe_key = $1`
	s, err := scanSession(r.DB.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) GetMulti(ctx context.Context, keys []string) ([]*domain.Session, error) {
	if len(keys) == 0 {
		return []*domain.Session{}, nil
	}
	found, err := r.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE websafe_key = ANY($1)`, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*domain.Session, len(found))
	for _, s := range found {
		byKey[s.Key] = s
	}
	sessions := make([]*domain.Session, 0, len(found))
	for _, k := range keys {
		if s, ok := byKey[k]; ok {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE websafe_key = $1`, key)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) ListByConference(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+`
		FROM sessions
		WHERE conference_key = $1
		ORDER BY created_at, websafe_key`, conferenceKey)
}

func (r *SessionRepository) ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+`
		FROM sessions
		WHERE conference_key = $1 AND type_of_session = $2
		ORDER BY created_at, websafe_key`, conferenceKey, typeOfSession)
}

func (r *SessionRepository) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+`
		FROM sessions
		WHERE $1 = ANY(speakers)
		ORDER BY created_at, websafe_key`, speaker)
}

func (r *SessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceKey, speaker string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+`
		FROM sessions
		WHERE conference_key = $1 AND $2 = ANY(speakers)
		ORDER BY created_at, websafe_key`, conferenceKey, speaker)
}

func (r *SessionRepository) Find(ctx context.Context, eq []domain.Predicate) ([]*domain.Session, error) {
	cond, args, _, err := whereClause(eq, sessionQueryColumns, 1)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(`SELECT ` + sessionColumns + ` FROM sessions`)
	if cond != "" {
		sb.WriteString(" WHERE " + cond)
	}
	sb.WriteString(" ORDER BY created_at, websafe_key")
	return r.list(ctx, sb.String(), args...)
}
