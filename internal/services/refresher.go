package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"conferencecentral/internal/domain"
)

// NearlySoldOutThreshold is the largest seat count for which a conference is
// listed in the announcement.
const NearlySoldOutThreshold = 5

// recomputeTimeout bounds a featured speaker recomputation shared by several readers.
const recomputeTimeout = 10 * time.Second

const (
	announcementTemplate    = "Last chance to attend! The following conferences are nearly sold out: %s"
	featuredSpeakerTemplate = "The featured speaker is %s, and the sessions are: %s"
)

type refresher struct {
	conferences domain.ConferenceRepository
	sessions    domain.SessionRepository
	cache       domain.Cache
	logger      *slog.Logger
	recompute   singleflight.Group
}

// NewRefresher returns a Refresher that derives cache entries from the
// repositories. Cache failures are logged and never fail an operation.
func NewRefresher(conferences domain.ConferenceRepository, sessions domain.SessionRepository, cache domain.Cache, logger *slog.Logger) domain.Refresher {
	return &refresher{
		conferences: conferences,
		sessions:    sessions,
		cache:       cache,
		logger:      logger,
	}
}

func (r *refresher) RefreshAnnouncement(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "refresher.RefreshAnnouncement")
	defer span.End()

	confs, err := r.conferences.ListNearlySoldOut(ctx, NearlySoldOutThreshold)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	span.SetAttributes(attribute.Int("conferences.nearly_sold_out", len(confs)))
	if len(confs) == 0 {
		r.cacheDelete(ctx, domain.AnnouncementCacheKey)
		return "", nil
	}

	names := make([]string, len(confs))
	for i, c := range confs {
		names[i] = c.Name
	}
	announcement := fmt.Sprintf(announcementTemplate, strings.Join(names, ", "))
	r.cacheSet(ctx, domain.AnnouncementCacheKey, announcement)
	return announcement, nil
}

func (r *refresher) GetAnnouncement(ctx context.Context) string {
	v, _, err := r.cache.Get(ctx, domain.AnnouncementCacheKey)
	if err != nil {
		r.logger.Warn("cache get failed", "key", domain.AnnouncementCacheKey, "error", err)
		return ""
	}
	return v
}

func (r *refresher) RefreshFeaturedSpeaker(ctx context.Context, speaker, conferenceKey string) (string, error) {
	ctx, span := tracer.Start(ctx, "refresher.RefreshFeaturedSpeaker")
	defer span.End()
	span.SetAttributes(attribute.String("conference.key", conferenceKey), attribute.String("speaker", speaker))

	if speaker == "" {
		return "", nil
	}
	sessions, err := r.sessions.ListByConferenceAndSpeaker(ctx, conferenceKey, speaker)
	if err != nil {
		return "", fmt.Errorf("list sessions by speaker: %w", err)
	}
	if len(sessions) <= 1 {
		return "", nil
	}

	conf, err := r.conferences.GetByKey(ctx, conferenceKey)
	if err != nil {
		return "", fmt.Errorf("get conference: %w", err)
	}
	if conf.FeaturedSpeaker == nil || *conf.FeaturedSpeaker != speaker {
		if err := r.conferences.SetFeaturedSpeaker(ctx, conferenceKey, &speaker); err != nil {
			return "", fmt.Errorf("set featured speaker: %w", err)
		}
	}

	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.Name
	}
	featured := fmt.Sprintf(featuredSpeakerTemplate, speaker, strings.Join(names, ", "))
	r.cacheSet(ctx, domain.FeaturedSpeakerCacheKey(conferenceKey), featured)
	return featured, nil
}

func (r *refresher) InvalidateFeaturedSpeaker(ctx context.Context, speaker, conferenceKey string) error {
	featured, err := r.RefreshFeaturedSpeaker(ctx, speaker, conferenceKey)
	if err != nil || featured != "" {
		return err
	}
	conf, err := r.conferences.GetByKey(ctx, conferenceKey)
	if errors.Is(err, domain.ErrNotFound) {
		r.cacheDelete(ctx, domain.FeaturedSpeakerCacheKey(conferenceKey))
		return nil
	}
	if err != nil {
		return fmt.Errorf("get conference: %w", err)
	}
	if conf.FeaturedSpeaker == nil || *conf.FeaturedSpeaker != speaker {
		return nil
	}
	if err := r.conferences.SetFeaturedSpeaker(ctx, conferenceKey, nil); err != nil {
		return fmt.Errorf("clear featured speaker: %w", err)
	}
	r.cacheDelete(ctx, domain.FeaturedSpeakerCacheKey(conferenceKey))
	return nil
}

func (r *refresher) GetFeaturedSpeaker(ctx context.Context, conferenceKey string) (string, error) {
	key := domain.FeaturedSpeakerCacheKey(conferenceKey)
	v, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("cache get failed", "key", key, "error", err)
	}
	if ok && v != "" {
		return v, nil
	}

	// Concurrent misses for one conference share a single recomputation. It is
	// detached from the caller that started it; each caller waits on its own ctx.
	ch := r.recompute.DoChan(conferenceKey, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), recomputeTimeout)
		defer cancel()
		conf, err := r.conferences.GetByKey(shared, conferenceKey)
		if err != nil {
			return "", fmt.Errorf("get conference: %w", err)
		}
		if conf.FeaturedSpeaker == nil {
			return "", nil
		}
		return r.RefreshFeaturedSpeaker(shared, *conf.FeaturedSpeaker, conferenceKey)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *refresher) cacheSet(ctx context.Context, key, value string) {
	if err := r.cache.Set(ctx, key, value); err != nil {
		r.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

func (r *refresher) cacheDelete(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}
