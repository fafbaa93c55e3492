package controllers

import (
	"context"
	"io"
	"log/slog"

	"conferencecentral/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeConferenceService struct {
	conf       *domain.Conference
	list       []*domain.Conference
	err        error
	lastInput  domain.ConferenceInput
	lastKey    string
	lastFilter []domain.RawFilter
	lastPage   domain.PaginationParams
}

func (f *fakeConferenceService) CreateConference(_ context.Context, _ domain.Identity, in domain.ConferenceInput) (*domain.Conference, error) {
	f.lastInput = in
	return f.conf, f.err
}

func (f *fakeConferenceService) UpdateConference(_ context.Context, _ domain.Identity, key string, in domain.ConferenceInput) (*domain.Conference, error) {
	f.lastKey, f.lastInput = key, in
	return f.conf, f.err
}

func (f *fakeConferenceService) GetConference(_ context.Context, key string) (*domain.Conference, error) {
	f.lastKey = key
	return f.conf, f.err
}

func (f *fakeConferenceService) ListCreated(context.Context, domain.Identity) ([]*domain.Conference, error) {
	return f.list, f.err
}

func (f *fakeConferenceService) ListAttending(context.Context, domain.Identity) ([]*domain.Conference, error) {
	return f.list, f.err
}

func (f *fakeConferenceService) QueryConferences(_ context.Context, filters []domain.RawFilter, page domain.PaginationParams) ([]*domain.Conference, error) {
	f.lastFilter, f.lastPage = filters, page
	return f.list, f.err
}

type fakeInventory struct {
	changed bool
	err     error
	calls   []string
}

func (f *fakeInventory) Register(_ context.Context, _ domain.Identity, key string) (bool, error) {
	f.calls = append(f.calls, "register:"+key)
	return f.changed, f.err
}

func (f *fakeInventory) Unregister(_ context.Context, _ domain.Identity, key string) (bool, error) {
	f.calls = append(f.calls, "unregister:"+key)
	return f.changed, f.err
}

type fakeRefresher struct {
	domain.Refresher
	announcement string
	featured     string
	err          error
}

func (f *fakeRefresher) GetAnnouncement(context.Context) string { return f.announcement }

func (f *fakeRefresher) GetFeaturedSpeaker(context.Context, string) (string, error) {
	return f.featured, f.err
}

type fakeSessionService struct {
	sessions   []*domain.Session
	session    *domain.Session
	err        error
	lastCall   string
	lastArg    string
	lastInput  domain.SessionInput
	lastFilter []domain.RawFilter
}

func (f *fakeSessionService) CreateSession(_ context.Context, _ domain.Identity, key string, in domain.SessionInput) (*domain.Session, error) {
	f.lastCall, f.lastArg, f.lastInput = "create", key, in
	return f.session, f.err
}

func (f *fakeSessionService) DeleteSession(_ context.Context, _ domain.Identity, key string) error {
	f.lastCall, f.lastArg = "delete", key
	return f.err
}

func (f *fakeSessionService) GetSession(_ context.Context, key string) (*domain.Session, error) {
	f.lastCall, f.lastArg = "get", key
	return f.session, f.err
}

func (f *fakeSessionService) ListByConference(_ context.Context, key string) ([]*domain.Session, error) {
	f.lastCall, f.lastArg = "conference", key
	return f.sessions, f.err
}

func (f *fakeSessionService) ListByConferenceAndType(_ context.Context, _, typ string) ([]*domain.Session, error) {
	f.lastCall, f.lastArg = "type", typ
	return f.sessions, f.err
}

func (f *fakeSessionService) ListBySpeaker(_ context.Context, speaker string) ([]*domain.Session, error) {
	f.lastCall, f.lastArg = "speaker", speaker
	return f.sessions, f.err
}

func (f *fakeSessionService) ListByConferenceAndCompany(_ context.Context, _, company string) ([]*domain.Session, error) {
	f.lastCall, f.lastArg = "company", company
	return f.sessions, f.err
}

func (f *fakeSessionService) ListByConferenceAndSpecialty(_ context.Context, _, specialty string) ([]*domain.Session, error) {
	f.lastCall, f.lastArg = "specialty", specialty
	return f.sessions, f.err
}

func (f *fakeSessionService) QuerySessions(_ context.Context, filters []domain.RawFilter) ([]*domain.Session, error) {
	f.lastCall, f.lastFilter = "query", filters
	return f.sessions, f.err
}

type fakeSpeakerService struct {
	speaker    *domain.Speaker
	speakers   []*domain.Speaker
	err        error
	lastFilter []domain.RawFilter
}

func (f *fakeSpeakerService) CreateSpeaker(_ context.Context, sp *domain.Speaker) (*domain.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	sp.Key = "speaker-key"
	return sp, nil
}

func (f *fakeSpeakerService) GetSpeakerByName(context.Context, string) (*domain.Speaker, error) {
	return f.speaker, f.err
}

func (f *fakeSpeakerService) QuerySpeakers(_ context.Context, filters []domain.RawFilter) ([]*domain.Speaker, error) {
	f.lastFilter = filters
	return f.speakers, f.err
}

type fakeProfileService struct {
	profile   *domain.Profile
	items     []domain.WishlistItem
	err       error
	lastInput domain.ProfileInput
	lastKey   string
}

func (f *fakeProfileService) GetProfile(context.Context, domain.Identity) (*domain.Profile, error) {
	return f.profile, f.err
}

func (f *fakeProfileService) SaveProfile(_ context.Context, _ domain.Identity, in domain.ProfileInput) (*domain.Profile, error) {
	f.lastInput = in
	return f.profile, f.err
}

func (f *fakeProfileService) ToggleWishlist(_ context.Context, _ domain.Identity, key string) (*domain.Profile, error) {
	f.lastKey = key
	return f.profile, f.err
}

func (f *fakeProfileService) ListWishlist(context.Context, domain.Identity) ([]domain.WishlistItem, error) {
	return f.items, f.err
}
