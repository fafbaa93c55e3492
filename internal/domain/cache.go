package domain

import "context"

// Cache keys of derived facts.
const (
	AnnouncementCacheKey          = "RECENT_ANNOUNCEMENTS"
	FeaturedSpeakerCacheKeyPrefix = "FeaturedSpeaker|"
)

// FeaturedSpeakerCacheKey returns the cache key of a conference's featured speaker summary.
func FeaturedSpeakerCacheKey(conferenceKey string) string {
	return FeaturedSpeakerCacheKeyPrefix + conferenceKey
}

// Cache is a shared string cache. It is a best-effort accelerator: entries may
// be missing or stale at any time.
type Cache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Refresher recomputes derived cache entries from the entity store.
type Refresher interface {
	RefreshAnnouncement(ctx context.Context) (string, error)
	GetAnnouncement(ctx context.Context) string
	RefreshFeaturedSpeaker(ctx context.Context, speaker, conferenceKey string) (string, error)
	// InvalidateFeaturedSpeaker recomputes after a session naming speaker was
	// removed, clearing the conference's featured speaker when it no longer qualifies.
	InvalidateFeaturedSpeaker(ctx context.Context, speaker, conferenceKey string) error
	GetFeaturedSpeaker(ctx context.Context, conferenceKey string) (string, error)
}
