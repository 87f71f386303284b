package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeRequesters struct {
	byID map[uuid.UUID]domain.RequesterContext
}

func newFakeRequesters(rs ...domain.RequesterContext) *fakeRequesters {
	f := &fakeRequesters{byID: make(map[uuid.UUID]domain.RequesterContext)}
	for _, r := range rs {
		f.byID[r.UserID] = r
	}
	return f
}

func (f *fakeRequesters) GetRequester(_ context.Context, userID uuid.UUID, _ time.Time) (*domain.RequesterContext, error) {
	r, ok := f.byID[userID]
	if !ok {
		return nil, domain.ErrRequesterNotFound
	}
	return &r, nil
}

type fakeCandidates struct {
	jobs      []domain.Candidate
	users     []domain.Candidate
	lastHints domain.CandidateHints
	err       error
}

func (f *fakeCandidates) ListJobs(_ context.Context, hints domain.CandidateHints) ([]domain.Candidate, error) {
	f.lastHints = hints
	return f.jobs, f.err
}

func (f *fakeCandidates) ListUsers(_ context.Context, hints domain.CandidateHints) ([]domain.Candidate, error) {
	f.lastHints = hints
	return f.users, f.err
}

type fakeUsage struct {
	count     int
	lastSince time.Time
}

func (f *fakeUsage) CountActions(_ context.Context, _ uuid.UUID, _ domain.ActionKind, since time.Time) (int, error) {
	f.lastSince = since
	return f.count, nil
}

// fakeStore имитирует атомарную запись: считает использование и вызывает guard под мьютексом.
type fakeStore struct {
	mu           sync.Mutex
	usage        map[uuid.UUID]int
	applications []domain.Application
	jobs         []domain.Job
	locations    map[uuid.UUID]domain.Location
	jobForApp    *domain.JobForApplication
}

func newFakeStore() *fakeStore {
	return &fakeStore{usage: make(map[uuid.UUID]int), locations: make(map[uuid.UUID]domain.Location)}
}

func (s *fakeStore) CreateApplicationWithinQuota(_ context.Context, app domain.Application, _ time.Time, guard port.QuotaGuard) (domain.QuotaDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobForApp != nil {
		if err := domain.CheckApplicable(*s.jobForApp, app.ApplicantID); err != nil {
			return domain.QuotaDecision{}, err
		}
	}
	decision := guard(s.usage[app.ApplicantID])
	if !decision.Allowed {
		return decision, &domain.QuotaDeniedError{Decision: decision}
	}
	s.usage[app.ApplicantID]++
	s.applications = append(s.applications, app)
	return decision, nil
}

func (s *fakeStore) CreateJobWithinQuota(_ context.Context, job domain.Job, _ time.Time, guard port.QuotaGuard) (domain.QuotaDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	decision := guard(s.usage[job.PosterID])
	if !decision.Allowed {
		return decision, &domain.QuotaDeniedError{Decision: decision}
	}
	s.usage[job.PosterID]++
	s.jobs = append(s.jobs, job)
	return decision, nil
}

func (s *fakeStore) UpdateJobLocation(_ context.Context, jobID uuid.UUID, loc domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[jobID] = loc
	return nil
}

type fakePublisher struct {
	mu           sync.Mutex
	jobs         []domain.Job
	applications []domain.Application
	err          error
}

func (p *fakePublisher) PublishJobPosted(_ context.Context, job domain.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
	return p.err
}

func (p *fakePublisher) PublishApplicationSubmitted(_ context.Context, app domain.Application) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applications = append(p.applications, app)
	return p.err
}

type fakeGeocoder struct {
	calls  int
	result *domain.GeocodeResult
	err    error
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (*domain.GeocodeResult, error) {
	g.calls++
	return g.result, g.err
}

type fakeCache struct {
	entries map[string]domain.GeocodeResult
	getErr  error
}

func (c *fakeCache) Get(_ context.Context, address string) (*domain.GeocodeResult, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	r, ok := c.entries[address]
	if !ok {
		return nil, domain.ErrGeocodeCacheMiss
	}
	return &r, nil
}

func (c *fakeCache) Set(_ context.Context, address string, result domain.GeocodeResult) error {
	if c.entries == nil {
		c.entries = make(map[string]domain.GeocodeResult)
	}
	c.entries[address] = result
	return nil
}

type fakeSubscriptions struct {
	expired int64
	err     error
	lastNow time.Time
}

func (s *fakeSubscriptions) ExpireSubscriptions(_ context.Context, now time.Time) (int64, error) {
	s.lastNow = now
	return s.expired, s.err
}

var errStorage = errors.New("storage is down")
