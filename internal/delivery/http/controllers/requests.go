package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

// ConferenceRequest is the request body for creating or updating a conference.
// On update, omitted fields are left unchanged.
type ConferenceRequest struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	City         *string  `json:"city,omitempty"`
	StartDate    *string  `json:"start_date,omitempty" example:"2026-06-10"`
	EndDate      *string  `json:"end_date,omitempty" example:"2026-06-12"`
	MaxAttendees *int     `json:"max_attendees,omitempty"`

	startDate, endDate *time.Time
}

// Validate implements helpers.Validator. Dates must be YYYY-MM-DD.
func (c *ConferenceRequest) Validate() []string {
	var errs []string
	var err error
	if c.startDate, err = parseDate(c.StartDate); err != nil {
		errs = append(errs, "start_date: "+err.Error())
	}
	if c.endDate, err = parseDate(c.EndDate); err != nil {
		errs = append(errs, "end_date: "+err.Error())
	}
	return errs
}

func (c *ConferenceRequest) input() domain.ConferenceInput {
	return domain.ConferenceInput{
		Name:         c.Name,
		Description:  c.Description,
		Topics:       c.Topics,
		City:         c.City,
		StartDate:    c.startDate,
		EndDate:      c.endDate,
		MaxAttendees: c.MaxAttendees,
	}
}

// SessionRequest is the request body for POST /conferences/{key}/sessions.
type SessionRequest struct {
	Name          string   `json:"name"`
	Highlights    string   `json:"highlights,omitempty"`
	Speakers      []string `json:"speaker,omitempty"`
	Duration      int      `json:"duration,omitempty"`
	TypeOfSession string   `json:"type_of_session,omitempty" example:"WORKSHOP"`
	Date          *string  `json:"date,omitempty" example:"2026-06-10"`
	StartTime     string   `json:"start_time,omitempty" example:"09:30"`

	date *time.Time
}

// Validate implements helpers.Validator.
func (s *SessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	var err error
	if s.date, err = parseDate(s.Date); err != nil {
		errs = append(errs, "date: "+err.Error())
	}
	return errs
}

func (s *SessionRequest) input() domain.SessionInput {
	return domain.SessionInput{
		Name:            s.Name,
		Highlights:      s.Highlights,
		Speakers:        s.Speakers,
		DurationMinutes: s.Duration,
		TypeOfSession:   s.TypeOfSession,
		Date:            s.date,
		StartTime:       s.StartTime,
	}
}

// QueryRequest carries filters either as structured triples or as one filter
// expression such as `city = "London" AND maxAttendees > 10`, not both.
type QueryRequest struct {
	Filters []domain.RawFilter `json:"filters,omitempty"`
	Filter  string             `json:"filter,omitempty"`
}

// Validate implements helpers.Validator.
func (q *QueryRequest) Validate() []string {
	if len(q.Filters) > 0 && strings.TrimSpace(q.Filter) != "" {
		return []string{"use either filters or filter, not both"}
	}
	return nil
}

// rawFilters returns the request's filters, parsing the expression form against schema.
func (q *QueryRequest) rawFilters(schema *domain.Schema) ([]domain.RawFilter, error) {
	if strings.TrimSpace(q.Filter) == "" {
		return q.Filters, nil
	}
	return query.ParseFilterString(q.Filter, schema)
}

// decodeQuery reads an optional QueryRequest body; an empty body means no filters.
func decodeQuery(w http.ResponseWriter, r *http.Request, schema *domain.Schema) ([]domain.RawFilter, bool) {
	var req QueryRequest
	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return nil, false
		}
	}
	filters, err := req.rawFilters(schema)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return nil, false
	}
	return filters, true
}

// ProfileRequest is the request body for PUT /profile.
type ProfileRequest struct {
	DisplayName  *string `json:"display_name,omitempty"`
	TeeShirtSize *string `json:"tee_shirt_size,omitempty" example:"M_W"`
}

// SpeakerRequest is the request body for POST /speakers.
type SpeakerRequest struct {
	Name      string   `json:"name"`
	Biography string   `json:"biography,omitempty"`
	Company   string   `json:"company,omitempty"`
	Specialty []string `json:"specialty,omitempty"`
}

// Validate implements helpers.Validator.
func (s *SpeakerRequest) Validate() []string {
	if strings.TrimSpace(s.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", *s)
	}
	return &t, nil
}

// identity returns the authenticated caller or writes 401.
func identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, err := domain.IdentityFromContext(r.Context())
	if err != nil {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return domain.Identity{}, false
	}
	return id, true
}
