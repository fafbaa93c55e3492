package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func conferenceKey(organizer string) string {
	return domain.AllocateKey(domain.KindConference, domain.ProfileKey(organizer)).Encode()
}

func sessionKey(confKey string) string {
	parent, err := domain.DecodeKey(confKey)
	if err != nil {
		panic(err)
	}
	return domain.AllocateKey(domain.KindSession, parent).Encode()
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// memStore is an in-memory entity store with optimistic versioning.
type memStore struct {
	mu          sync.Mutex
	conferences map[string]*domain.Conference
	profiles    map[string]*domain.Profile
	sessions    []*domain.Session
	speakers    []*domain.Speaker

	err error
	// conflicts makes the next n commits fail as if another writer won.
	conflicts int
	commits   int
}

func newMemStore() *memStore {
	return &memStore{
		conferences: map[string]*domain.Conference{},
		profiles:    map[string]*domain.Profile{},
	}
}

func cloneConference(c *domain.Conference) *domain.Conference {
	cp := *c
	cp.Topics = slices.Clone(c.Topics)
	if c.FeaturedSpeaker != nil {
		cp.FeaturedSpeaker = strPtr(*c.FeaturedSpeaker)
	}
	return &cp
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	cp := *p
	cp.ConferenceKeysToAttend = slices.Clone(p.ConferenceKeysToAttend)
	cp.SessionWishlist = slices.Clone(p.SessionWishlist)
	return &cp
}

func (s *memStore) putConference(c *domain.Conference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Version == 0 {
		c.Version = 1
	}
	s.conferences[c.Key] = cloneConference(c)
}

func (s *memStore) putProfile(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Version == 0 {
		p.Version = 1
	}
	s.profiles[p.UserID] = cloneProfile(p)
}

func (s *memStore) conference(key string) *domain.Conference {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conferences[key]; ok {
		return cloneConference(c)
	}
	return nil
}

func (s *memStore) profile(userID string) *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return cloneProfile(p)
	}
	return nil
}

// conferences

type fakeConferenceRepo struct{ s *memStore }

func (r fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	if r.s.err != nil {
		return r.s.err
	}
	c.Version = 1
	r.s.putConference(c)
	return nil
}

func (r fakeConferenceRepo) GetByKey(ctx context.Context, key string) (*domain.Conference, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	if c := r.s.conference(key); c != nil {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r fakeConferenceRepo) GetMulti(ctx context.Context, keys []string) ([]*domain.Conference, error) {
	out := []*domain.Conference{}
	for _, k := range keys {
		if c := r.s.conference(k); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeConferenceRepo) all() []*domain.Conference {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Conference, 0, len(r.s.conferences))
	for _, c := range r.s.conferences {
		out = append(out, cloneConference(c))
	}
	slices.SortFunc(out, func(a, b *domain.Conference) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out
}

func (r fakeConferenceRepo) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	out := []*domain.Conference{}
	for _, c := range r.all() {
		if c.OrganizerUserID == organizerUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Query evaluates predicates in process; ordering by the inequality field is
// not modelled.
func (r fakeConferenceRepo) Query(ctx context.Context, eq, ineq []domain.Predicate, page domain.PaginationParams) ([]*domain.Conference, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := []*domain.Conference{}
	for _, c := range r.all() {
		if query.Matches(c, eq) && query.Matches(c, ineq) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeConferenceRepo) ListNearlySoldOut(ctx context.Context, threshold int) ([]*domain.Conference, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := []*domain.Conference{}
	for _, c := range r.all() {
		if c.SeatsAvailable > 0 && c.SeatsAvailable <= threshold {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeConferenceRepo) SetFeaturedSpeaker(ctx context.Context, key string, speaker *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.conferences[key]
	if !ok {
		return domain.ErrNotFound
	}
	if speaker == nil {
		c.FeaturedSpeaker = nil
	} else {
		c.FeaturedSpeaker = strPtr(*speaker)
	}
	c.Version++
	return nil
}

// profiles

type fakeProfileRepo struct{ s *memStore }

func (r fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	if p := r.s.profile(userID); p != nil {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (r fakeProfileRepo) GetMulti(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	out := map[string]*domain.Profile{}
	for _, id := range userIDs {
		if p := r.s.profile(id); p != nil {
			out[id] = p
		}
	}
	return out, nil
}

func (r fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.UserID]; ok {
		return domain.ErrConcurrentModification
	}
	p.Version = 1
	r.s.profiles[p.UserID] = cloneProfile(p)
	return nil
}

func (r fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.profiles[p.UserID]
	if !ok || cur.Version != p.Version {
		return domain.ErrConcurrentModification
	}
	p.Version++
	r.s.profiles[p.UserID] = cloneProfile(p)
	return nil
}

// sessions

type fakeSessionRepo struct{ s *memStore }

func (r fakeSessionRepo) filter(keep func(*domain.Session) bool) ([]*domain.Session, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.Session{}
	for _, sess := range r.s.sessions {
		if keep(sess) {
			cp := *sess
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeSessionRepo) Create(ctx context.Context, sess *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sess
	r.s.sessions = append(r.s.sessions, &cp)
	return nil
}

func (r fakeSessionRepo) GetByKey(ctx context.Context, key string) (*domain.Session, error) {
	found, err := r.filter(func(s *domain.Session) bool { return s.Key == key })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return found[0], nil
}

func (r fakeSessionRepo) GetMulti(ctx context.Context, keys []string) ([]*domain.Session, error) {
	out := []*domain.Session{}
	for _, k := range keys {
		if s, err := r.GetByKey(ctx, k); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r fakeSessionRepo) Delete(ctx context.Context, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := slices.IndexFunc(r.s.sessions, func(s *domain.Session) bool { return s.Key == key })
	if i < 0 {
		return domain.ErrNotFound
	}
	r.s.sessions = slices.Delete(r.s.sessions, i, i+1)
	return nil
}

func (r fakeSessionRepo) ListByConference(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	return r.filter(func(s *domain.Session) bool { return s.ConferenceKey == conferenceKey })
}

func (r fakeSessionRepo) ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*domain.Session, error) {
	return r.filter(func(s *domain.Session) bool {
		return s.ConferenceKey == conferenceKey && s.TypeOfSession == typeOfSession
	})
}

func (r fakeSessionRepo) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	return r.filter(func(s *domain.Session) bool { return slices.Contains(s.Speakers, speaker) })
}

func (r fakeSessionRepo) ListByConferenceAndSpeaker(ctx context.Context, conferenceKey, speaker string) ([]*domain.Session, error) {
	return r.filter(func(s *domain.Session) bool {
		return s.ConferenceKey == conferenceKey && slices.Contains(s.Speakers, speaker)
	})
}

func (r fakeSessionRepo) Find(ctx context.Context, eq []domain.Predicate) ([]*domain.Session, error) {
	return r.filter(func(s *domain.Session) bool { return query.Matches(s, eq) })
}

// speakers

type fakeSpeakerRepo struct{ s *memStore }

func (r fakeSpeakerRepo) filter(keep func(*domain.Speaker) bool) ([]*domain.Speaker, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.Speaker{}
	for _, sp := range r.s.speakers {
		if keep(sp) {
			cp := *sp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeSpeakerRepo) Create(ctx context.Context, sp *domain.Speaker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sp
	r.s.speakers = append(r.s.speakers, &cp)
	return nil
}

func (r fakeSpeakerRepo) GetByName(ctx context.Context, name string) (*domain.Speaker, error) {
	found, err := r.filter(func(sp *domain.Speaker) bool { return sp.Name == name })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return found[0], nil
}

func (r fakeSpeakerRepo) ListByCompany(ctx context.Context, company string) ([]*domain.Speaker, error) {
	return r.filter(func(sp *domain.Speaker) bool { return sp.Company == company })
}

func (r fakeSpeakerRepo) ListBySpecialty(ctx context.Context, specialty string) ([]*domain.Speaker, error) {
	return r.filter(func(sp *domain.Speaker) bool { return slices.Contains(sp.Specialty, specialty) })
}

func (r fakeSpeakerRepo) Find(ctx context.Context, eq []domain.Predicate) ([]*domain.Speaker, error) {
	return r.filter(func(sp *domain.Speaker) bool { return query.Matches(sp, eq) })
}

// transactions

type fakeTransactor struct{ s *memStore }

type memTx struct {
	s           *memStore
	profiles    map[string]*domain.Profile
	conferences map[string]*domain.Conference
}

func (t fakeTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	tx := &memTx{s: t.s, profiles: map[string]*domain.Profile{}, conferences: map[string]*domain.Conference{}}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func (t *memTx) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if t.s.err != nil {
		return nil, t.s.err
	}
	if p := t.s.profile(userID); p != nil {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (t *memTx) GetConference(ctx context.Context, key string) (*domain.Conference, error) {
	if t.s.err != nil {
		return nil, t.s.err
	}
	if c := t.s.conference(key); c != nil {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (t *memTx) SaveProfile(ctx context.Context, p *domain.Profile) error {
	t.profiles[p.UserID] = cloneProfile(p)
	return nil
}

func (t *memTx) SaveConference(ctx context.Context, c *domain.Conference) error {
	t.conferences[c.Key] = cloneConference(c)
	return nil
}

func (t *memTx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.conflicts > 0 {
		t.s.conflicts--
		return fmt.Errorf("%w: injected", domain.ErrConcurrentModification)
	}
	for id, p := range t.profiles {
		cur, ok := t.s.profiles[id]
		if (!ok && p.Version != 0) || (ok && cur.Version != p.Version) {
			return fmt.Errorf("%w: profile %s", domain.ErrConcurrentModification, id)
		}
	}
	for key, c := range t.conferences {
		cur, ok := t.s.conferences[key]
		if !ok || cur.Version != c.Version {
			return fmt.Errorf("%w: conference %s", domain.ErrConcurrentModification, key)
		}
	}
	for id, p := range t.profiles {
		p.Version++
		t.s.profiles[id] = p
	}
	for key, c := range t.conferences {
		c.Version++
		t.s.conferences[key] = c
	}
	t.s.commits++
	return nil
}

// cache and queue

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	gets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.values, key)
	return nil
}

func (c *fakeCache) value(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

type recordingQueue struct {
	mu    sync.Mutex
	tasks []domain.Task
	err   error
}

func (q *recordingQueue) Enqueue(ctx context.Context, task domain.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}
