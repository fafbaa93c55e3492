package domain

import (
	"context"
	"slices"
	"strings"
	"time"
)

// T-shirt sizes accepted on a profile.
var TeeShirtSizes = []string{
	"NOT_SPECIFIED",
	"XS_M", "XS_W", "S_M", "S_W", "M_M", "M_W", "L_M", "L_W",
	"XL_M", "XL_W", "XXL_M", "XXL_W", "XXXL_M", "XXXL_W",
}

// Profile is the per-user record holding conference registrations and the session wishlist.
// swagger:model Profile
type Profile struct {
	UserID                 string    `json:"user_id"`
	DisplayName            string    `json:"display_name"`
	MainEmail              string    `json:"main_email"`
	TeeShirtSize           string    `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string  `json:"conference_keys_to_attend"`
	SessionWishlist        []string  `json:"session_wishlist"`
	Version                int64     `json:"-"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewProfile returns an unsaved profile for the identity. Version 0 marks it as new.
func NewProfile(identity Identity, now time.Time) *Profile {
	name := identity.DisplayName
	if name == "" {
		name, _, _ = strings.Cut(identity.Email, "@")
	}
	return &Profile{
		UserID:                 identity.UserID,
		DisplayName:            name,
		MainEmail:              identity.Email,
		TeeShirtSize:           "NOT_SPECIFIED",
		ConferenceKeysToAttend: []string{},
		SessionWishlist:        []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// IsAttending reports whether the conference key is in the attendance set.
func (p *Profile) IsAttending(conferenceKey string) bool {
	return slices.Contains(p.ConferenceKeysToAttend, conferenceKey)
}

// AddConference appends the key unless already present. It reports whether it was added.
func (p *Profile) AddConference(conferenceKey string) bool {
	if p.IsAttending(conferenceKey) {
		return false
	}
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, conferenceKey)
	return true
}

// RemoveConference removes the key. It reports whether it was present.
func (p *Profile) RemoveConference(conferenceKey string) bool {
	i := slices.Index(p.ConferenceKeysToAttend, conferenceKey)
	if i < 0 {
		return false
	}
	p.ConferenceKeysToAttend = slices.Delete(p.ConferenceKeysToAttend, i, i+1)
	return true
}

// ToggleWishlist adds the session key, or removes it when already present.
// It reports whether the key is in the wishlist afterwards.
func (p *Profile) ToggleWishlist(sessionKey string) bool {
	if i := slices.Index(p.SessionWishlist, sessionKey); i >= 0 {
		p.SessionWishlist = slices.Delete(p.SessionWishlist, i, i+1)
		return false
	}
	p.SessionWishlist = append(p.SessionWishlist, sessionKey)
	return true
}

// ProfileInput carries user-editable profile fields.
type ProfileInput struct {
	DisplayName  *string
	TeeShirtSize *string
}

// ProfileRepository defines storage operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// GetMulti returns the profiles found, keyed by user id.
	GetMulti(ctx context.Context, userIDs []string) (map[string]*Profile, error)
	// Create inserts the profile; it returns ErrConcurrentModification if it already exists.
	Create(ctx context.Context, p *Profile) error
	// Update writes the profile if its version is unchanged and bumps the version.
	Update(ctx context.Context, p *Profile) error
}

// WishlistItem is the per-key outcome of resolving a profile's wishlist.
type WishlistItem struct {
	Key     string   `json:"key"`
	Session *Session `json:"session,omitempty"`
	// Skipped is the reason a key was not resolved; empty on success.
	Skipped string `json:"skipped,omitempty"`
}

// ProfileService defines profile and wishlist operations.
type ProfileService interface {
	GetProfile(ctx context.Context, identity Identity) (*Profile, error)
	SaveProfile(ctx context.Context, identity Identity, in ProfileInput) (*Profile, error)
	ToggleWishlist(ctx context.Context, identity Identity, sessionKey string) (*Profile, error)
	ListWishlist(ctx context.Context, identity Identity) ([]WishlistItem, error)
}
