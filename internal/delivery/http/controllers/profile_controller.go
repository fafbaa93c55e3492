package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type ProfileController struct {
	Logger   *slog.Logger
	Profiles domain.ProfileService
}

func NewProfileController(logger *slog.Logger, profiles domain.ProfileService) *ProfileController {
	return &ProfileController{Logger: logger, Profiles: profiles}
}

// GetProfile godoc
// @Summary Caller's profile
// @Description Returns the caller's profile, creating it on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Profile
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	p, err := c.Profiles.GetProfile(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// SaveProfile godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ProfileRequest true "Fields to change"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [put]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req ProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Profiles.SaveProfile(r.Context(), id, domain.ProfileInput{
		DisplayName:  req.DisplayName,
		TeeShirtSize: req.TeeShirtSize,
	})
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// ToggleWishlist godoc
// @Summary Add or remove a session from the wishlist
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param sessionKey path string true "Websafe session key"
// @Success 200 {object} domain.Profile
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /profile/wishlist/{sessionKey} [post]
func (c *ProfileController) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	p, err := c.Profiles.ToggleWishlist(r.Context(), id, r.PathValue("sessionKey"))
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// ListWishlist godoc
// @Summary Resolve the caller's wishlist
// @Description Each entry is either resolved to its session or carries the reason it was skipped.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WishlistItem
// @Router /profile/wishlist [get]
func (c *ProfileController) ListWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	items, err := c.Profiles.ListWishlist(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
