package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"conferencecentral/internal/domain"
)

// FeaturedSpeakerTaskHandler recomputes a conference's featured speaker. With
// the invalidate param set it also clears a featured speaker who no longer qualifies.
func FeaturedSpeakerTaskHandler(refresher domain.Refresher) domain.TaskHandler {
	return func(ctx context.Context, task domain.Task) error {
		speaker := task.Params[domain.ParamSpeaker]
		conferenceKey := task.Params[domain.ParamConferenceKey]
		if speaker == "" || conferenceKey == "" {
			return fmt.Errorf("%w: task %s needs %s and %s", domain.ErrInvalidInput, task.Name, domain.ParamSpeaker, domain.ParamConferenceKey)
		}
		invalidate, _ := strconv.ParseBool(task.Params[domain.ParamInvalidate])
		if invalidate {
			return refresher.InvalidateFeaturedSpeaker(ctx, speaker, conferenceKey)
		}
		_, err := refresher.RefreshFeaturedSpeaker(ctx, speaker, conferenceKey)
		return err
	}
}

// ConfirmationEmailTaskHandler sends the conference created email.
func ConfirmationEmailTaskHandler(emails domain.EmailService) domain.TaskHandler {
	return func(ctx context.Context, task domain.Task) error {
		return emails.SendConferenceConfirmation(ctx, &domain.ConferenceConfirmationEmailData{
			Email:          task.Params[domain.ParamEmail],
			ConferenceName: task.Params[domain.ParamConferenceName],
			ConferenceKey:  task.Params[domain.ParamConferenceKey],
		})
	}
}

// AnnouncementSweep refreshes the announcement; it is the body of the periodic trigger.
func AnnouncementSweep(refresher domain.Refresher) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := refresher.RefreshAnnouncement(ctx)
		return err
	}
}

// RunEvery calls fn once immediately and then on every tick until ctx is done.
// Failures are logged; the next tick tries again.
func RunEvery(ctx context.Context, interval time.Duration, name string, logger *slog.Logger, fn func(ctx context.Context) error) {
	if interval <= 0 {
		logger.Warn("periodic job disabled", "job", name, "interval", interval)
		return
	}
	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.ErrorContext(ctx, "periodic job failed", "job", name, "error", err)
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
