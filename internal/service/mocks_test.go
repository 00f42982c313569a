package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

type fakeCredentialStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	revoked  map[string]time.Duration
	err      error
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{sessions: map[string]models.Session{}, revoked: map[string]time.Duration{}}
}

func (f *fakeCredentialStore) SaveSession(_ context.Context, id string, session *models.Session, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sessions[id] = *session
	return nil
}

func (f *fakeCredentialStore) FindSession(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	session, ok := f.sessions[id]
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return &session, nil
}

func (f *fakeCredentialStore) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return f.err
}

func (f *fakeCredentialStore) RevokeToken(_ context.Context, tokenID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = ttl
	return f.err
}

func (f *fakeCredentialStore) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type fakeBoothUsers struct {
	users map[string]*models.BoothUser
	err   error
}

func (f *fakeBoothUsers) FindByUsername(_ context.Context, username string) (*models.BoothUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type fakeProfiles struct {
	profiles map[string]*models.Profile
	err      error
	calls    int
}

func (f *fakeProfiles) FindByID(_ context.Context, subjectID string) (*models.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[subjectID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

type fakePostRepo struct {
	posts   []models.BoothPost
	created *models.BoothPost
	recent  int
	err     error
}

func (f *fakePostRepo) ListByEvent(_ context.Context, eventID string) ([]models.BoothPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.BoothPost{}
	for _, p := range f.posts {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) ListRecent(_ context.Context, limit int) ([]models.BoothPost, error) {
	f.recent++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.posts) > limit {
		return f.posts[:limit], nil
	}
	return f.posts, nil
}

func (f *fakePostRepo) FindByID(_ context.Context, id int64) (*models.BoothPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.posts {
		if p.ID == id {
			post := p
			return &post, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePostRepo) Create(_ context.Context, post *models.BoothPost) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	post.ID = int64(len(f.posts) + 1)
	f.posts = append(f.posts, *post)
	f.created = post
	return post.ID, nil
}

type fakeEventRepo struct {
	events    map[string]models.Event
	createErr error
	listErr   error
	lists     int
}

func newFakeEventRepo(events ...models.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: map[string]models.Event{}}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (f *fakeEventRepo) List(context.Context) ([]models.Event, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Event{}
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id string) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func (f *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.events[event.ID]; exists {
		return sql.ErrTxDone
	}
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *models.Event) (bool, error) {
	if _, ok := f.events[event.ID]; !ok {
		return false, nil
	}
	f.events[event.ID] = *event
	return true, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) (bool, error) {
	_, ok := f.events[id]
	delete(f.events, id)
	return ok, nil
}

type fakeScheduleRepo struct {
	entries []models.ScheduleEntry
	err     error
}

func (f *fakeScheduleRepo) ListByEvent(_ context.Context, eventID string) ([]models.ScheduleEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.ScheduleEntry{}
	for _, e := range f.entries {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(_ context.Context, id int64) (*models.ScheduleEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func strPtr(s string) *string { return &s }
