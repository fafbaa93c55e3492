package domain

import (
	"context"
	"strings"
	"time"
)

// Conference defaults applied on creation when the organizer leaves them empty.
const (
	DefaultCity = "Default City"
)

// DefaultTopics is applied when a conference is created without topics.
var DefaultTopics = []string{"Default", "Topic"}

// Conference is an event organized by a user and keyed under the organizer's profile.
// swagger:model Conference
type Conference struct {
	Key                  string     `json:"websafe_key"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	OrganizerUserID      string     `json:"organizer_user_id"`
	OrganizerDisplayName string     `json:"organizer_display_name,omitempty"`
	Topics               []string   `json:"topics"`
	City                 string     `json:"city"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	Month                int        `json:"month"`
	MaxAttendees         int        `json:"max_attendees"`
	SeatsAvailable       int        `json:"seats_available"`
	FeaturedSpeaker      *string    `json:"featured_speaker,omitempty"`
	Version              int64      `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ConferenceSchema lists the filterable conference fields.
var ConferenceSchema = NewSchema(KindConference,
	FieldSpec{Name: "name", Token: "NAME", Kind: FieldString},
	FieldSpec{Name: "city", Token: "CITY", Kind: FieldString},
	FieldSpec{Name: "topics", Token: "TOPIC", Kind: FieldString, Repeated: true},
	FieldSpec{Name: "month", Token: "MONTH", Kind: FieldInt},
	FieldSpec{Name: "maxAttendees", Token: "MAX_ATTENDEES", Kind: FieldInt},
	FieldSpec{Name: "seatsAvailable", Token: "SEATS_AVAILABLE", Kind: FieldInt},
)

// Field implements FieldGetter.
func (c *Conference) Field(name string) (any, bool) {
	switch name {
	case "name":
		return c.Name, true
	case "description":
		return c.Description, true
	case "organizerUserId":
		return c.OrganizerUserID, true
	case "city":
		return c.City, true
	case "topics":
		return c.Topics, true
	case "month":
		return int64(c.Month), true
	case "maxAttendees":
		return int64(c.MaxAttendees), true
	case "seatsAvailable":
		return int64(c.SeatsAvailable), true
	case "startDate":
		if c.StartDate == nil {
			return nil, false
		}
		return c.StartDate.Format(DateLayout), true
	case "endDate":
		if c.EndDate == nil {
			return nil, false
		}
		return c.EndDate.Format(DateLayout), true
	case "featuredSpeaker":
		if c.FeaturedSpeaker == nil {
			return nil, false
		}
		return *c.FeaturedSpeaker, true
	}
	return nil, false
}

// DateLayout is the calendar date format used by conferences and sessions.
const DateLayout = "2006-01-02"

// TimeLayout is the session start time format.
const TimeLayout = "15:04"

// CanonicalDate parses a YYYY-MM-DD date and returns it in DateLayout.
func CanonicalDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// CanonicalTime parses an H:MM or HH:MM time and returns it zero-padded.
func CanonicalTime(s string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(TimeLayout), nil
}

// ConferenceInput carries organizer-editable conference fields. Nil or empty
// values mean "not provided".
type ConferenceInput struct {
	Name         string
	Description  *string
	Topics       []string
	City         *string
	StartDate    *time.Time
	EndDate      *time.Time
	MaxAttendees *int
}

// ConferenceRepository defines storage operations for conferences.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	GetByKey(ctx context.Context, key string) (*Conference, error)
	// GetMulti returns the conferences found for keys in key order; missing keys are skipped.
	GetMulti(ctx context.Context, keys []string) ([]*Conference, error)
	ListByOrganizer(ctx context.Context, organizerUserID string) ([]*Conference, error)
	// Query pushes both predicate groups to the store, ordered by the
	// inequality field (if any) and then by name.
	Query(ctx context.Context, eq, ineq []Predicate, page PaginationParams) ([]*Conference, error)
	// ListNearlySoldOut returns conferences with 0 < seats_available <= threshold, by name.
	ListNearlySoldOut(ctx context.Context, threshold int) ([]*Conference, error)
	SetFeaturedSpeaker(ctx context.Context, key string, speaker *string) error
}

// ConferenceService defines conference organizer and browsing operations.
type ConferenceService interface {
	CreateConference(ctx context.Context, identity Identity, in ConferenceInput) (*Conference, error)
	UpdateConference(ctx context.Context, identity Identity, key string, in ConferenceInput) (*Conference, error)
	GetConference(ctx context.Context, key string) (*Conference, error)
	ListCreated(ctx context.Context, identity Identity) ([]*Conference, error)
	ListAttending(ctx context.Context, identity Identity) ([]*Conference, error)
	QueryConferences(ctx context.Context, filters []RawFilter, page PaginationParams) ([]*Conference, error)
}
