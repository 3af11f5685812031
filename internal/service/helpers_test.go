package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
	"github.com/jobboard-dev/jobboard/backend/internal/service/servicetest"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *servicetest.Store
	notifier     *servicetest.Notifier
	tokens       *auth.TokenService
	auth         *service.AuthService
	jobs         *service.JobService
	applications *service.ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	store := servicetest.NewStore()
	notifier := &servicetest.Notifier{}

	return &fixture{
		store:        store,
		notifier:     notifier,
		tokens:       tokens,
		auth:         service.NewAuthService(store, tokens, notifier),
		jobs:         service.NewJobService(store),
		applications: service.NewApplicationService(store, notifier),
	}
}

func (f *fixture) register(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()

	user, _, err := f.auth.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Password: "password123",
		Name:     "User " + email,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) postJob(t *testing.T, owner *domain.User, title string) *domain.Job {
	t.Helper()

	job, err := f.jobs.Create(context.Background(), owner.ID, service.JobInput{
		Title:       title,
		Description: "Build things",
		Company:     "Acme",
		Location:    "Remote",
	})
	require.NoError(t, err)
	return job
}

// memCache is a map-backed service.Cache that counts hits per key.
type memCache struct {
	mu     sync.Mutex
	values map[string][]byte
	hits   map[string]int
	err    error
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string][]byte), hits: make(map[string]int)}
}

func (c *memCache) hitCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits[key]
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return false, c.err
	}
	b, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits[key]++
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)
	return c.err
}

type memLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemLimiter() *memLimiter {
	return &memLimiter{counts: make(map[string]int64)}
}

func (l *memLimiter) Attempts(_ context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return 0, l.err
	}
	return l.counts[key], nil
}

func (l *memLimiter) RecordAttempt(_ context.Context, key string, _ time.Duration) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return 0, l.err
	}
	l.counts[key]++
	return l.counts[key], nil
}

func (l *memLimiter) ResetAttempts(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.counts, key)
	return l.err
}

// racingStore runs afterList once, between reading the job list and returning it.
type racingStore struct {
	*servicetest.Store
	afterList func()
}

func (s *racingStore) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	jobs, err := s.Store.ListJobs(ctx)
	if hook := s.afterList; hook != nil {
		s.afterList = nil
		hook()
	}
	return jobs, err
}

var errBoom = errors.New("boom")
