package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

const (
	jobsListCacheKey   = "jobs:list"
	jobsListVersionKey = "jobs:list:version"
)

// cachedJobList is only served while Version matches the current list version.
type cachedJobList struct {
	Version string        `json:"version"`
	Jobs    []*domain.Job `json:"jobs"`
}

type JobInput struct {
	Title       string
	Description string
	Company     string
	Location    string
	Salary      *int64
}

type JobService struct {
	store    Store
	cache    Cache
	cacheTTL time.Duration
}

func NewJobService(store Store) *JobService {
	return &JobService{store: store}
}

// WithCache caches the public job list for ttl; every job mutation invalidates it.
func (s *JobService) WithCache(cache Cache, ttl time.Duration) *JobService {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// List returns every job with its employer's public details, newest first.
func (s *JobService) List(ctx context.Context) ([]*domain.Job, error) {
	var version string
	cacheable := false
	if s.cache != nil {
		// read the version before the store so a concurrent mutation marks this snapshot stale
		if _, err := s.cache.GetJSON(ctx, jobsListVersionKey, &version); err != nil {
			slog.Warn("job list cache read failed", "error", err)
		} else {
			cacheable = true

			var cached cachedJobList
			hit, err := s.cache.GetJSON(ctx, jobsListCacheKey, &cached)
			if err != nil {
				slog.Warn("job list cache read failed", "error", err)
			}
			if hit && cached.Version == version {
				return cached.Jobs, nil
			}
		}
	}

	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	if cacheable {
		entry := cachedJobList{Version: version, Jobs: jobs}
		if err := s.cache.SetJSON(ctx, jobsListCacheKey, entry, s.cacheTTL); err != nil {
			slog.Warn("job list cache write failed", "error", err)
		}
	}

	return jobs, nil
}

func (s *JobService) Get(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// Create requires the owner to still exist and to be an employer.
func (s *JobService) Create(ctx context.Context, ownerID int64, in JobInput) (*domain.Job, error) {
	owner, err := s.store.GetUserByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get owner %d: %w", ownerID, err)
	}
	if owner.Role != domain.RoleEmployer {
		return nil, domain.ErrForbidden
	}

	job := &domain.Job{
		Title:       in.Title,
		Description: in.Description,
		Company:     in.Company,
		Location:    in.Location,
		Salary:      in.Salary,
		EmployerID:  owner.ID,
		Employer:    owner.Summary(),
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.invalidateList(ctx)
	return job, nil
}

func (s *JobService) Update(ctx context.Context, id, ownerID int64, in JobInput) (*domain.Job, error) {
	job, err := s.ownedJob(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	job.Title = in.Title
	job.Description = in.Description
	job.Company = in.Company
	job.Location = in.Location
	job.Salary = in.Salary

	if err := s.store.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("update job %d: %w", id, err)
	}

	s.invalidateList(ctx)
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, id, ownerID int64) error {
	if _, err := s.ownedJob(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.store.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("delete job %d: %w", id, err)
	}

	s.invalidateList(ctx)
	return nil
}

// ListForEmployer returns the employer's jobs, each carrying its applications.
func (s *JobService) ListForEmployer(ctx context.Context, employerID int64) ([]*domain.Job, error) {
	jobs, err := s.store.ListJobsByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs of employer %d: %w", employerID, err)
	}

	apps, err := s.store.ListApplicationsForEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("list applications of employer %d: %w", employerID, err)
	}

	byJob := make(map[int64]*domain.Job, len(jobs))
	for _, job := range jobs {
		job.Applications = make([]*domain.Application, 0)
		byJob[job.ID] = job
	}
	for _, app := range apps {
		if job, ok := byJob[app.JobID]; ok {
			job.Applications = append(job.Applications, app)
		}
	}

	return jobs, nil
}

func (s *JobService) ownedJob(ctx context.Context, id, ownerID int64) (*domain.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	if job.EmployerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

// invalidateList runs after the store write. The new version has no expiry, so a
// snapshot taken before the write can never match it again.
func (s *JobService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, jobsListVersionKey, uuid.NewString(), 0); err != nil {
		slog.Warn("job list cache version bump failed", "error", err)
	}
	if err := s.cache.Delete(ctx, jobsListCacheKey); err != nil {
		slog.Warn("job list cache invalidation failed", "error", err)
	}
}
