package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

type sessionService struct {
	conferences domain.ConferenceRepository
	sessions    domain.SessionRepository
	speakers    domain.SpeakerRepository
	queue       domain.TaskQueue
	logger      *slog.Logger
	now         func() time.Time
}

// NewSessionService creates a SessionService with the given repositories.
func NewSessionService(
	conferences domain.ConferenceRepository,
	sessions domain.SessionRepository,
	speakers domain.SpeakerRepository,
	queue domain.TaskQueue,
	logger *slog.Logger,
) domain.SessionService {
	return &sessionService{
		conferences: conferences,
		sessions:    sessions,
		speakers:    speakers,
		queue:       queue,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, identity domain.Identity, conferenceKey string, in domain.SessionInput) (*domain.Session, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
	}
	confKey, err := domain.DecodeKeyOfKind(conferenceKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	typeOfSession, err := normalizeSessionType(in.TypeOfSession)
	if err != nil {
		return nil, err
	}
	if in.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidInput)
	}
	startTime := ""
	if strings.TrimSpace(in.StartTime) != "" {
		if startTime, err = domain.CanonicalTime(in.StartTime); err != nil {
			return nil, fmt.Errorf("%w: startTime %q is not HH:MM", domain.ErrInvalidInput, in.StartTime)
		}
	}

	conf, err := s.getConference(ctx, conferenceKey)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerUserID != identity.UserID {
		return nil, fmt.Errorf("%w: only the owner can add sessions to the conference", domain.ErrForbidden)
	}

	speakers := uniqueNames(in.Speakers)
	for _, name := range speakers {
		if err := s.ensureSpeaker(ctx, name); err != nil {
			return nil, err
		}
	}

	sess := &domain.Session{
		Key:             domain.AllocateKey(domain.KindSession, confKey).Encode(),
		ConferenceKey:   conf.Key,
		Name:            name,
		Highlights:      in.Highlights,
		Speakers:        speakers,
		DurationMinutes: in.DurationMinutes,
		TypeOfSession:   typeOfSession,
		Date:            in.Date,
		StartTime:       startTime,
		CreatedAt:       s.now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	for _, sp := range speakers {
		enqueue(ctx, s.queue, s.logger, featuredSpeakerTask(sp, conf.Key, false))
	}
	return sess, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, identity domain.Identity, sessionKey string) error {
	if identity.UserID == "" {
		return domain.ErrUnauthorized
	}
	sess, err := s.GetSession(ctx, sessionKey)
	if err != nil {
		return err
	}
	conf, err := s.getConference(ctx, sess.ConferenceKey)
	if err != nil {
		return err
	}
	if conf.OrganizerUserID != identity.UserID {
		return fmt.Errorf("%w: only the owner can delete sessions of the conference", domain.ErrForbidden)
	}
	if err := s.sessions.Delete(ctx, sess.Key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	for _, sp := range sess.Speakers {
		enqueue(ctx, s.queue, s.logger, featuredSpeakerTask(sp, conf.Key, true))
	}
	return nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionKey string) (*domain.Session, error) {
	if _, err := domain.DecodeKeyOfKind(sessionKey, domain.KindSession); err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetByKey(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionKey)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *sessionService) ListByConference(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	if _, err := s.getConference(ctx, conferenceKey); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByConference(ctx, conferenceKey)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*domain.Session, error) {
	if strings.TrimSpace(typeOfSession) == "" {
		return nil, fmt.Errorf("%w: the 'typeOfSession' field is required", domain.ErrInvalidInput)
	}
	t, err := normalizeSessionType(typeOfSession)
	if err != nil {
		return nil, err
	}
	if _, err := s.getConference(ctx, conferenceKey); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByConferenceAndType(ctx, conferenceKey, t)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		return nil, fmt.Errorf("%w: the 'speaker' field is required", domain.ErrInvalidInput)
	}
	sessions, err := s.sessions.ListBySpeaker(ctx, speaker)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListByConferenceAndCompany(ctx context.Context, conferenceKey, company string) ([]*domain.Session, error) {
	if strings.TrimSpace(company) == "" {
		return nil, fmt.Errorf("%w: the 'company' field is required", domain.ErrInvalidInput)
	}
	return s.listBySpeakers(ctx, conferenceKey, func(ctx context.Context) ([]*domain.Speaker, error) {
		return s.speakers.ListByCompany(ctx, company)
	})
}

func (s *sessionService) ListByConferenceAndSpecialty(ctx context.Context, conferenceKey, specialty string) ([]*domain.Session, error) {
	if strings.TrimSpace(specialty) == "" {
		return nil, fmt.Errorf("%w: the 'specialty' field is required", domain.ErrInvalidInput)
	}
	return s.listBySpeakers(ctx, conferenceKey, func(ctx context.Context) ([]*domain.Speaker, error) {
		return s.speakers.ListBySpecialty(ctx, specialty)
	})
}

// listBySpeakers returns the conference's sessions that name any of the speakers listed.
func (s *sessionService) listBySpeakers(ctx context.Context, conferenceKey string, listSpeakers func(context.Context) ([]*domain.Speaker, error)) ([]*domain.Session, error) {
	if _, err := s.getConference(ctx, conferenceKey); err != nil {
		return nil, err
	}
	speakers, err := listSpeakers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	names := make(map[string]struct{}, len(speakers))
	for _, sp := range speakers {
		names[sp.Name] = struct{}{}
	}
	sessions, err := s.sessions.ListByConference(ctx, conferenceKey)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	matched := make([]*domain.Session, 0)
	for _, sess := range sessions {
		if slices.ContainsFunc(sess.Speakers, func(n string) bool { _, ok := names[n]; return ok }) {
			matched = append(matched, sess)
		}
	}
	return matched, nil
}

func (s *sessionService) QuerySessions(ctx context.Context, filters []domain.RawFilter) ([]*domain.Session, error) {
	eq, ineq, err := query.Normalize(filters, domain.SessionSchema)
	if err != nil {
		return nil, err
	}
	future := query.Generic(ctx, func(ctx context.Context) ([]*domain.Session, error) {
		return s.sessions.Find(ctx, eq)
	}, ineq, func(sess *domain.Session) *domain.Session { return sess })

	sessions, err := future.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) getConference(ctx context.Context, conferenceKey string) (*domain.Conference, error) {
	if _, err := domain.DecodeKeyOfKind(conferenceKey, domain.KindConference); err != nil {
		return nil, err
	}
	conf, err := s.conferences.GetByKey(ctx, conferenceKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceKey)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return conf, nil
}

// ensureSpeaker creates a placeholder speaker for a name not seen before.
func (s *sessionService) ensureSpeaker(ctx context.Context, name string) error {
	_, err := s.speakers.GetByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get speaker: %w", err)
	}
	sp := domain.NewPlaceholderSpeaker(name)
	sp.Key = domain.AllocateKey(domain.KindSpeaker, nil).Encode()
	if err := s.speakers.Create(ctx, sp); err != nil {
		return fmt.Errorf("create speaker: %w", err)
	}
	s.logger.Info("created placeholder speaker", "speaker", name)
	return nil
}

func featuredSpeakerTask(speaker, conferenceKey string, invalidate bool) domain.Task {
	params := map[string]string{
		domain.ParamSpeaker:       speaker,
		domain.ParamConferenceKey: conferenceKey,
	}
	if invalidate {
		params[domain.ParamInvalidate] = "true"
	}
	return domain.Task{Name: domain.TaskUpdateFeaturedSpeaker, Params: params}
}

func normalizeSessionType(t string) (string, error) {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return "NOT_SPECIFIED", nil
	}
	if !slices.Contains(domain.SessionTypes, t) {
		return "", fmt.Errorf("%w: typeOfSession must be one of %s", domain.ErrInvalidInput, strings.Join(domain.SessionTypes, ", "))
	}
	return t, nil
}

func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
