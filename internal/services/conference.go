package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

type conferenceService struct {
	conferences domain.ConferenceRepository
	profiles    domain.ProfileRepository
	tx          domain.Transactor
	queue       domain.TaskQueue
	retry       RetryPolicy
	logger      *slog.Logger
	now         func() time.Time
}

// NewConferenceService creates a ConferenceService with the given repositories.
func NewConferenceService(
	conferences domain.ConferenceRepository,
	profiles domain.ProfileRepository,
	tx domain.Transactor,
	queue domain.TaskQueue,
	retry RetryPolicy,
	logger *slog.Logger,
) domain.ConferenceService {
	return &conferenceService{
		conferences: conferences,
		profiles:    profiles,
		tx:          tx,
		queue:       queue,
		retry:       retry,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, identity domain.Identity, in domain.ConferenceInput) (*domain.Conference, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 0 {
		return nil, fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	profile, err := ensureProfile(ctx, s.profiles, identity, s.now())
	if err != nil {
		return nil, err
	}

	now := s.now()
	conf := &domain.Conference{
		Key:             domain.AllocateKey(domain.KindConference, domain.ProfileKey(identity.UserID)).Encode(),
		Name:            name,
		OrganizerUserID: identity.UserID,
		City:            domain.DefaultCity,
		Topics:          append([]string(nil), domain.DefaultTopics...),
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Description != nil {
		conf.Description = *in.Description
	}
	if in.City != nil && strings.TrimSpace(*in.City) != "" {
		conf.City = strings.TrimSpace(*in.City)
	}
	if len(in.Topics) > 0 {
		conf.Topics = append([]string(nil), in.Topics...)
	}
	if in.MaxAttendees != nil {
		conf.MaxAttendees = *in.MaxAttendees
	}
	conf.SeatsAvailable = conf.MaxAttendees
	conf.Month = monthOf(conf.StartDate)

	if err := s.conferences.Create(ctx, conf); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}
	conf.OrganizerDisplayName = profile.DisplayName

	task := domain.Task{Name: domain.TaskSendConfirmationEmail, Params: map[string]string{
		domain.ParamEmail:          identity.Email,
		domain.ParamConferenceName: conf.Name,
		domain.ParamConferenceKey:  conf.Key,
	}}
	if identity.Email != "" {
		enqueue(ctx, s.queue, s.logger, task)
	}
	return conf, nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, identity domain.Identity, key string, in domain.ConferenceInput) (*domain.Conference, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := domain.DecodeKeyOfKind(key, domain.KindConference); err != nil {
		return nil, err
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 0 {
		return nil, fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
	}

	return retryOnConflict(ctx, s.retry, func(ctx context.Context) (*domain.Conference, error) {
		var updated *domain.Conference
		err := s.tx.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
			conf, err := loadConference(ctx, tx, key)
			if err != nil {
				return err
			}
			if conf.OrganizerUserID != identity.UserID {
				return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
			}
			if err := applyConferenceInput(conf, in); err != nil {
				return err
			}
			conf.UpdatedAt = s.now()
			if err := tx.SaveConference(ctx, conf); err != nil {
				return fmt.Errorf("save conference: %w", err)
			}
			updated = conf
			return nil
		})
		return updated, err
	})
}

// applyConferenceInput copies the provided fields onto conf. A capacity change
// keeps the number of registered attendees and fails if it would drop below it.
func applyConferenceInput(conf *domain.Conference, in domain.ConferenceInput) error {
	if name := strings.TrimSpace(in.Name); name != "" {
		conf.Name = name
	}
	if in.Description != nil {
		conf.Description = *in.Description
	}
	if in.City != nil && strings.TrimSpace(*in.City) != "" {
		conf.City = strings.TrimSpace(*in.City)
	}
	if len(in.Topics) > 0 {
		conf.Topics = append([]string(nil), in.Topics...)
	}
	if in.StartDate != nil {
		conf.StartDate = in.StartDate
		conf.Month = monthOf(in.StartDate)
	}
	if in.EndDate != nil {
		conf.EndDate = in.EndDate
	}
	if err := checkDates(conf.StartDate, conf.EndDate); err != nil {
		return err
	}
	if in.MaxAttendees != nil {
		registered := conf.MaxAttendees - conf.SeatsAvailable
		if *in.MaxAttendees < registered {
			return fmt.Errorf("%w: maxAttendees %d is below the %d registered attendees", domain.ErrInvalidInput, *in.MaxAttendees, registered)
		}
		conf.MaxAttendees = *in.MaxAttendees
		conf.SeatsAvailable = conf.MaxAttendees - registered
	}
	return nil
}

func (s *conferenceService) GetConference(ctx context.Context, key string) (*domain.Conference, error) {
	if _, err := domain.DecodeKeyOfKind(key, domain.KindConference); err != nil {
		return nil, err
	}
	conf, err := s.conferences.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if err := s.attachOrganizerNames(ctx, []*domain.Conference{conf}); err != nil {
		return nil, err
	}
	return conf, nil
}

func (s *conferenceService) ListCreated(ctx context.Context, identity domain.Identity) ([]*domain.Conference, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	confs, err := s.conferences.ListByOrganizer(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by organizer: %w", err)
	}
	if err := s.attachOrganizerNames(ctx, confs); err != nil {
		return nil, err
	}
	return confs, nil
}

func (s *conferenceService) ListAttending(ctx context.Context, identity domain.Identity) ([]*domain.Conference, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.profiles.GetByUserID(ctx, identity.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return []*domain.Conference{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	confs, err := s.conferences.GetMulti(ctx, profile.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}
	if err := s.attachOrganizerNames(ctx, confs); err != nil {
		return nil, err
	}
	return confs, nil
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []domain.RawFilter, page domain.PaginationParams) ([]*domain.Conference, error) {
	eq, ineq, err := query.Normalize(filters, domain.ConferenceSchema)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "query.Indexed")
	span.SetAttributes(
		attribute.Int("query.equality", len(eq)),
		attribute.Int("query.inequality", len(ineq)),
		attribute.String("query.inequality_field", query.InequalityField(ineq)),
	)
	confs, err := s.conferences.Query(ctx, eq, ineq, page)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	if err := s.attachOrganizerNames(ctx, confs); err != nil {
		return nil, err
	}
	return confs, nil
}

// attachOrganizerNames fills OrganizerDisplayName from a batch lookup of the
// organizers' profiles.
func (s *conferenceService) attachOrganizerNames(ctx context.Context, confs []*domain.Conference) error {
	if len(confs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(confs))
	ids := make([]string, 0, len(confs))
	for _, c := range confs {
		if _, ok := seen[c.OrganizerUserID]; !ok {
			seen[c.OrganizerUserID] = struct{}{}
			ids = append(ids, c.OrganizerUserID)
		}
	}
	profiles, err := s.profiles.GetMulti(ctx, ids)
	if err != nil {
		return fmt.Errorf("get organizer profiles: %w", err)
	}
	for _, c := range confs {
		if p, ok := profiles[c.OrganizerUserID]; ok {
			c.OrganizerDisplayName = p.DisplayName
		}
	}
	return nil
}

func monthOf(t *time.Time) int {
	if t == nil {
		return 0
	}
	return int(t.Month())
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: endDate is before startDate", domain.ErrInvalidInput)
	}
	return nil
}

// ensureProfile returns the user's profile, creating it on first access.
func ensureProfile(ctx context.Context, profiles domain.ProfileRepository, identity domain.Identity, now time.Time) (*domain.Profile, error) {
	profile, err := profiles.GetByUserID(ctx, identity.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	profile = domain.NewProfile(identity, now)
	if err := profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			// Created by a concurrent request.
			return profiles.GetByUserID(ctx, identity.UserID)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// enqueue submits a fire-and-forget task; failures are logged only.
func enqueue(ctx context.Context, queue domain.TaskQueue, logger *slog.Logger, task domain.Task) {
	if err := queue.Enqueue(ctx, task); err != nil {
		logger.Warn("enqueue task failed", "task", task.Name, "error", err)
	}
}
