package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// SessionListSuccessResponse is the success envelope for session lists.
type SessionListSuccessResponse struct {
	Data  []*domain.Session `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SessionController struct {
	Logger   *slog.Logger
	Sessions domain.SessionService
}

func NewSessionController(logger *slog.Logger, sessions domain.SessionService) *SessionController {
	return &SessionController{Logger: logger, Sessions: sessions}
}

// CreateSession godoc
// @Summary Add a session to a conference
// @Description Only the organizer may add sessions. Unknown speakers are created with placeholder details.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Param body body controllers.SessionRequest true "Session"
// @Success 201 {object} domain.Session
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{key}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req SessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sess, err := c.Sessions.CreateSession(r.Context(), id, r.PathValue("key"), req.input())
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sess)
}

// ListConferenceSessions godoc
// @Summary Sessions of a conference
// @Description At most one of type, company and specialty narrows the list.
// @Tags sessions
// @Produce json
// @Param key path string true "Websafe conference key"
// @Param type query string false "Type of session"
// @Param company query string false "Speaker company"
// @Param specialty query string false "Speaker specialty"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{key}/sessions [get]
func (c *SessionController) ListConferenceSessions(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	q := r.URL.Query()
	set := 0
	for _, p := range []string{"type", "company", "specialty"} {
		if q.Has(p) {
			set++
		}
	}
	if set > 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "use at most one of type, company, specialty")
		return
	}

	var (
		sessions []*domain.Session
		err      error
	)
	switch {
	case q.Has("type"):
		sessions, err = c.Sessions.ListByConferenceAndType(r.Context(), key, q.Get("type"))
	case q.Has("company"):
		sessions, err = c.Sessions.ListByConferenceAndCompany(r.Context(), key, q.Get("company"))
	case q.Has("specialty"):
		sessions, err = c.Sessions.ListByConferenceAndSpecialty(r.Context(), key, q.Get("specialty"))
	default:
		sessions, err = c.Sessions.ListByConference(r.Context(), key)
	}
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param key path string true "Websafe session key"
// @Success 200 {object} domain.Session
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{key} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := c.Sessions.GetSession(r.Context(), r.PathValue("key"))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sess)
}

// DeleteSession godoc
// @Summary Delete a session
// @Tags sessions
// @Security BearerAuth
// @Param key path string true "Websafe session key"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{key} [delete]
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	if err := c.Sessions.DeleteSession(r.Context(), id, r.PathValue("key")); err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSpeakerSessions godoc
// @Summary Sessions given by a speaker, across conferences
// @Tags sessions
// @Produce json
// @Param name path string true "Speaker name"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Router /speakers/{name}/sessions [get]
func (c *SessionController) ListSpeakerSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Sessions.ListBySpeaker(r.Context(), r.PathValue("name"))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// QuerySessions godoc
// @Summary Query sessions
// @Description Filters sessions on any declared field. The inequality group is evaluated after fetching, so it may span fields the store cannot index together.
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body controllers.QueryRequest false "Filters"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /sessions/query [post]
func (c *SessionController) QuerySessions(w http.ResponseWriter, r *http.Request) {
	filters, ok := decodeQuery(w, r, domain.SessionSchema)
	if !ok {
		return
	}
	sessions, err := c.Sessions.QuerySessions(r.Context(), filters)
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}
