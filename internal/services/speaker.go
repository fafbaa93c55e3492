package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

type speakerService struct {
	speakers domain.SpeakerRepository
}

func NewSpeakerService(speakers domain.SpeakerRepository) domain.SpeakerService {
	return &speakerService{speakers: speakers}
}

func (s *speakerService) CreateSpeaker(ctx context.Context, sp *domain.Speaker) (*domain.Speaker, error) {
	if sp == nil || strings.TrimSpace(sp.Name) == "" {
		return nil, fmt.Errorf("%w: speaker 'name' field required", domain.ErrInvalidInput)
	}
	created := &domain.Speaker{
		Key:       domain.AllocateKey(domain.KindSpeaker, nil).Encode(),
		Name:      strings.TrimSpace(sp.Name),
		Biography: sp.Biography,
		Company:   sp.Company,
		Specialty: append([]string{}, sp.Specialty...),
	}
	if err := s.speakers.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create speaker: %w", err)
	}
	return created, nil
}

func (s *speakerService) GetSpeakerByName(ctx context.Context, name string) (*domain.Speaker, error) {
	sp, err := s.speakers.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no speaker named %q", domain.ErrNotFound, name)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	return sp, nil
}

func (s *speakerService) QuerySpeakers(ctx context.Context, filters []domain.RawFilter) ([]*domain.Speaker, error) {
	eq, ineq, err := query.Normalize(filters, domain.SpeakerSchema)
	if err != nil {
		return nil, err
	}
	speakers, err := query.Generic(ctx, func(ctx context.Context) ([]*domain.Speaker, error) {
		return s.speakers.Find(ctx, eq)
	}, ineq, func(sp *domain.Speaker) *domain.Speaker { return sp }).Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("query speakers: %w", err)
	}
	return speakers, nil
}
