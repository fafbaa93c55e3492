package domain

import (
	"context"
	"time"
)

// Session types accepted for typeOfSession.
var SessionTypes = []string{"NOT_SPECIFIED", "WORKSHOP", "LECTURE", "KEYNOTE", "PANEL"}

// Session is a talk scheduled within one conference; its key's parent is the conference key.
// swagger:model Session
type Session struct {
	Key             string     `json:"websafe_key"`
	ConferenceKey   string     `json:"websafe_conference_key"`
	Name            string     `json:"name"`
	Highlights      string     `json:"highlights"`
	Speakers        []string   `json:"speaker"`
	DurationMinutes int        `json:"duration"`
	TypeOfSession   string     `json:"type_of_session"`
	Date            *time.Time `json:"date,omitempty"`
	StartTime       string     `json:"start_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SessionSchema lists the filterable session fields.
var SessionSchema = NewSchema(KindSession,
	FieldSpec{Name: "name", Token: "NAME", Kind: FieldString},
	FieldSpec{Name: "highlights", Token: "HIGHLIGHTS", Kind: FieldString},
	FieldSpec{Name: "speaker", Token: "SPEAKER", Kind: FieldString, Repeated: true},
	FieldSpec{Name: "duration", Token: "DURATION", Kind: FieldInt},
	FieldSpec{Name: "typeOfSession", Token: "TYPE_OF_SESSION", Kind: FieldEnum, Enum: SessionTypes},
	FieldSpec{Name: "date", Token: "DATE", Kind: FieldDate},
	FieldSpec{Name: "startTime", Token: "START_TIME", Kind: FieldTime},
)

// Field implements FieldGetter.
func (s *Session) Field(name string) (any, bool) {
	switch name {
	case "name":
		return s.Name, true
	case "highlights":
		return s.Highlights, true
	case "speaker":
		return s.Speakers, true
	case "duration":
		return int64(s.DurationMinutes), true
	case "typeOfSession":
		return s.TypeOfSession, true
	case "date":
		if s.Date == nil {
			return nil, false
		}
		return s.Date.Format(DateLayout), true
	case "startTime":
		start, err := CanonicalTime(s.StartTime)
		if err != nil {
			return nil, false
		}
		return start, true
	case "conferenceKey":
		return s.ConferenceKey, true
	}
	return nil, false
}

// SessionInput carries the fields of a new session.
type SessionInput struct {
	Name            string
	Highlights      string
	Speakers        []string
	DurationMinutes int
	TypeOfSession   string
	Date            *time.Time
	StartTime       string
}

// SessionRepository defines storage operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByKey(ctx context.Context, key string) (*Session, error)
	// GetMulti returns the sessions found for keys in key order; missing keys are skipped.
	GetMulti(ctx context.Context, keys []string) ([]*Session, error)
	Delete(ctx context.Context, key string) error
	ListByConference(ctx context.Context, conferenceKey string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speaker string) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceKey, speaker string) ([]*Session, error)
	// Find returns sessions matching every equality predicate, in store order.
	Find(ctx context.Context, eq []Predicate) ([]*Session, error)
}

// SessionService defines session creation, lookup and ad hoc query operations.
type SessionService interface {
	CreateSession(ctx context.Context, identity Identity, conferenceKey string, in SessionInput) (*Session, error)
	DeleteSession(ctx context.Context, identity Identity, sessionKey string) error
	GetSession(ctx context.Context, sessionKey string) (*Session, error)
	ListByConference(ctx context.Context, conferenceKey string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speaker string) ([]*Session, error)
	ListByConferenceAndCompany(ctx context.Context, conferenceKey, company string) ([]*Session, error)
	ListByConferenceAndSpecialty(ctx context.Context, conferenceKey, specialty string) ([]*Session, error)
	QuerySessions(ctx context.Context, filters []RawFilter) ([]*Session, error)
}
