package http

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Conferences *controllers.ConferenceController
	Sessions    *controllers.SessionController
	Speakers    *controllers.SpeakerController
	Profiles    *controllers.ProfileController
}

// NewRouter initializes the HTTP router with all application routes, wrapped
// in request logging and CORS.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Conferences
	mux.HandleFunc("POST /conferences", auth(c.Conferences.CreateConference))
	mux.HandleFunc("POST /conferences/query", c.Conferences.QueryConferences)
	mux.HandleFunc("GET /conferences/created", auth(c.Conferences.ListCreated))
	mux.HandleFunc("GET /conferences/attending", auth(c.Conferences.ListAttending))
	mux.HandleFunc("GET /conferences/{key}", c.Conferences.GetConference)
	mux.HandleFunc("PUT /conferences/{key}", auth(c.Conferences.UpdateConference))
	mux.HandleFunc("POST /conferences/{key}/registration", auth(c.Conferences.Register))
	mux.HandleFunc("DELETE /conferences/{key}/registration", auth(c.Conferences.Unregister))
	mux.HandleFunc("GET /conferences/{key}/featured-speaker", c.Conferences.GetFeaturedSpeaker)
	mux.HandleFunc("GET /announcement", c.Conferences.GetAnnouncement)

	// Sessions
	mux.HandleFunc("POST /conferences/{key}/sessions", auth(c.Sessions.CreateSession))
	mux.HandleFunc("GET /conferences/{key}/sessions", c.Sessions.ListConferenceSessions)
	mux.HandleFunc("POST /sessions/query", c.Sessions.QuerySessions)
	mux.HandleFunc("GET /sessions/{key}", c.Sessions.GetSession)
	mux.HandleFunc("DELETE /sessions/{key}", auth(c.Sessions.DeleteSession))

	// Speakers
	mux.HandleFunc("POST /speakers", auth(c.Speakers.CreateSpeaker))
	mux.HandleFunc("POST /speakers/query", c.Speakers.QuerySpeakers)
	mux.HandleFunc("GET /speakers/{name}", c.Speakers.GetSpeaker)
	mux.HandleFunc("GET /speakers/{name}/sessions", c.Sessions.ListSpeakerSessions)

	// Profile
	mux.HandleFunc("GET /profile", auth(c.Profiles.GetProfile))
	mux.HandleFunc("PUT /profile", auth(c.Profiles.SaveProfile))
	mux.HandleFunc("GET /profile/wishlist", auth(c.Profiles.ListWishlist))
	mux.HandleFunc("POST /profile/wishlist/{sessionKey}", auth(c.Profiles.ToggleWishlist))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
