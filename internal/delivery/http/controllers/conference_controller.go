package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// ConferenceSuccessResponse is the success envelope for single-conference responses.
type ConferenceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ConferenceListSuccessResponse is the success envelope for conference lists.
type ConferenceListSuccessResponse struct {
	Data  []*domain.Conference `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegistrationResult reports whether a registration change took effect.
type RegistrationResult struct {
	Registered bool `json:"registered"`
	Changed    bool `json:"changed"`
}

// MessageResult carries a derived message; empty when none applies.
type MessageResult struct {
	Message string `json:"message"`
}

type ConferenceController struct {
	Logger      *slog.Logger
	Conferences domain.ConferenceService
	Inventory   domain.InventoryService
	Refresher   domain.Refresher
}

func NewConferenceController(logger *slog.Logger, conferences domain.ConferenceService, inventory domain.InventoryService, refresher domain.Refresher) *ConferenceController {
	return &ConferenceController{
		Logger:      logger,
		Conferences: conferences,
		Inventory:   inventory,
		Refresher:   refresher,
	}
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference owned by the caller. Empty city and topics get defaults; seats_available starts at max_attendees.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ConferenceRequest true "Conference"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conf, err := c.Conferences.CreateConference(r.Context(), id, req.input())
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conf)
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Partially updates a conference. Only the organizer may update it. Changing max_attendees keeps the number of registered attendees.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Param body body controllers.ConferenceRequest true "Fields to change"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{key} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conf, err := c.Conferences.UpdateConference(r.Context(), id, r.PathValue("key"), req.input())
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{key} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conf, err := c.Conferences.GetConference(r.Context(), r.PathValue("key"))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// ListCreated godoc
// @Summary Conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreated(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	confs, err := c.Conferences.ListCreated(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// ListAttending godoc
// @Summary Conferences the caller is registered for
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListAttending(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	confs, err := c.Conferences.ListAttending(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Filters conferences by name, city, topic, month, max_attendees and seats_available. Non-equality operators may be used on one field only. Results are ordered by that field, then by name.
// @Tags conferences
// @Accept json
// @Produce json
// @Param body body controllers.QueryRequest false "Filters"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	filters, ok := decodeQuery(w, r, domain.ConferenceSchema)
	if !ok {
		return
	}
	confs, err := c.Conferences.QueryConferences(r.Context(), filters, helpers.ParsePagination(r))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// Register godoc
// @Summary Register for a conference
// @Description Takes one seat for the caller. Fails with 409 when already registered or sold out, and with 503 when concurrent registrations kept conflicting.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.RegistrationResult
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{key}/registration [post]
func (c *ConferenceController) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	changed, err := c.Inventory.Register(r.Context(), id, r.PathValue("key"))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationResult{Registered: true, Changed: changed})
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Returns the caller's seat. changed is false when the caller was not registered.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.RegistrationResult
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conferences/{key}/registration [delete]
func (c *ConferenceController) Unregister(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	changed, err := c.Inventory.Unregister(r.Context(), id, r.PathValue("key"))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationResult{Registered: false, Changed: changed})
}

// GetAnnouncement godoc
// @Summary Nearly sold out announcement
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.MessageResult
// @Router /announcement [get]
func (c *ConferenceController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, MessageResult{Message: c.Refresher.GetAnnouncement(r.Context())})
}

// GetFeaturedSpeaker godoc
// @Summary Featured speaker of a conference
// @Tags conferences
// @Produce json
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.MessageResult
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{key}/featured-speaker [get]
func (c *ConferenceController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if _, err := domain.DecodeKeyOfKind(key, domain.KindConference); err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	msg, err := c.Refresher.GetFeaturedSpeaker(r.Context(), key)
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MessageResult{Message: msg})
}
