package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type SpeakerController struct {
	Logger   *slog.Logger
	Speakers domain.SpeakerService
}

func NewSpeakerController(logger *slog.Logger, speakers domain.SpeakerService) *SpeakerController {
	return &SpeakerController{Logger: logger, Speakers: speakers}
}

// CreateSpeaker godoc
// @Summary Create a speaker
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SpeakerRequest true "Speaker"
// @Success 201 {object} domain.Speaker
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /speakers [post]
func (c *SpeakerController) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req SpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sp, err := c.Speakers.CreateSpeaker(r.Context(), &domain.Speaker{
		Name:      req.Name,
		Biography: req.Biography,
		Company:   req.Company,
		Specialty: req.Specialty,
	})
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sp)
}

// GetSpeaker godoc
// @Summary Get a speaker by name
// @Tags speakers
// @Produce json
// @Param name path string true "Speaker name"
// @Success 200 {object} domain.Speaker
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /speakers/{name} [get]
func (c *SpeakerController) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	sp, err := c.Speakers.GetSpeakerByName(r.Context(), r.PathValue("name"))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sp)
}

// QuerySpeakers godoc
// @Summary Query speakers
// @Tags speakers
// @Accept json
// @Produce json
// @Param body body controllers.QueryRequest false "Filters"
// @Success 200 {array} domain.Speaker
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /speakers/query [post]
func (c *SpeakerController) QuerySpeakers(w http.ResponseWriter, r *http.Request) {
	filters, ok := decodeQuery(w, r, domain.SpeakerSchema)
	if !ok {
		return
	}
	speakers, err := c.Speakers.QuerySpeakers(r.Context(), filters)
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speakers)
}
