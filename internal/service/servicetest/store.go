// Package servicetest provides an in-memory implementation of the service storage ports.
// It enforces the same uniqueness, foreign key and conditional update rules as the
// PostgreSQL schema, so it can stand in for the repository in tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
)

var _ service.Store = (*Store)(nil)

type appKey struct {
	jobID, applicantID int64
}

type Store struct {
	mu sync.Mutex

	nextID int64
	clock  time.Time

	users        map[int64]*domain.User
	jobs         map[int64]*domain.Job
	applications map[int64]*domain.Application
	appsByPair   map[appKey]int64
}

func NewStore() *Store {
	return &Store{
		clock:        time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		users:        make(map[int64]*domain.User),
		jobs:         make(map[int64]*domain.Job),
		applications: make(map[int64]*domain.Application),
		appsByPair:   make(map[appKey]int64),
	}
}

// tick returns a fresh id and a timestamp strictly after every earlier one.
func (s *Store) tick() (int64, time.Time) {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	return s.nextID, s.clock
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	user.ID, user.CreatedAt = s.tick()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) GetAllUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// DeleteUser removes a user record; used to exercise tokens that outlive their user.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
}

func (s *Store) ListJobs(_ context.Context) ([]*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedJobs(func(*domain.Job) bool { return true }), nil
}

func (s *Store) ListJobsByEmployer(_ context.Context, employerID int64) ([]*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedJobs(func(j *domain.Job) bool { return j.EmployerID == employerID }), nil
}

func (s *Store) GetJob(_ context.Context, id int64) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.jobView(j), nil
}

func (s *Store) CreateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[job.EmployerID]; !ok {
		return domain.ErrNotFound
	}

	job.ID, job.CreatedAt = s.tick()
	s.jobs[job.ID] = &domain.Job{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Company:     job.Company,
		Location:    job.Location,
		Salary:      copySalary(job.Salary),
		EmployerID:  job.EmployerID,
		CreatedAt:   job.CreatedAt,
	}
	return nil
}

func (s *Store) UpdateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}

	stored.Title = job.Title
	stored.Description = job.Description
	stored.Company = job.Company
	stored.Location = job.Location
	stored.Salary = copySalary(job.Salary)

	job.EmployerID = stored.EmployerID
	job.CreatedAt = stored.CreatedAt
	return nil
}

func (s *Store) DeleteJob(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.jobs, id)

	for appID, app := range s.applications {
		if app.JobID == id {
			delete(s.applications, appID)
			delete(s.appsByPair, appKey{app.JobID, app.ApplicantID})
		}
	}
	return nil
}

func (s *Store) CreateApplication(_ context.Context, app *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[app.JobID]; !ok {
		return domain.ErrNotFound
	}
	key := appKey{app.JobID, app.ApplicantID}
	if _, ok := s.appsByPair[key]; ok {
		return domain.ErrAlreadyApplied
	}

	app.ID, app.AppliedAt = s.tick()
	app.Status = domain.ApplicationStatusPending
	s.applications[app.ID] = &domain.Application{
		ID:          app.ID,
		JobID:       app.JobID,
		ApplicantID: app.ApplicantID,
		Status:      app.Status,
		AppliedAt:   app.AppliedAt,
	}
	s.appsByPair[key] = app.ID
	return nil
}

func (s *Store) GetApplication(_ context.Context, id int64) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	cp.Job = s.jobView(s.jobs[a.JobID])
	return &cp, nil
}

func (s *Store) ListApplicationsByApplicant(_ context.Context, applicantID int64) ([]*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := make([]*domain.Application, 0)
	for _, a := range s.applications {
		if a.ApplicantID != applicantID {
			continue
		}
		cp := *a
		cp.Job = s.jobView(s.jobs[a.JobID])
		apps = append(apps, &cp)
	}
	sortApplications(apps)
	return apps, nil
}

func (s *Store) ListApplicationsForEmployer(_ context.Context, employerID int64) ([]*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := make([]*domain.Application, 0)
	for _, a := range s.applications {
		if s.jobs[a.JobID].EmployerID != employerID {
			continue
		}
		cp := *a
		if u, ok := s.users[a.ApplicantID]; ok {
			cp.Applicant = u.Summary()
		}
		apps = append(apps, &cp)
	}
	sortApplications(apps)
	return apps, nil
}

func (s *Store) UpdateApplicationStatus(_ context.Context, id int64, from, status domain.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok || a.Status != from {
		return domain.ErrNotFound
	}
	a.Status = status
	return nil
}

func (s *Store) DeleteApplication(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.applications, id)
	delete(s.appsByPair, appKey{a.JobID, a.ApplicantID})
	return nil
}

// CountApplications returns how many applications are stored.
func (s *Store) CountApplications() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.applications)
}

// CountJobs returns how many jobs are stored.
func (s *Store) CountJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.jobs)
}

func (s *Store) sortedJobs(keep func(*domain.Job) bool) []*domain.Job {
	jobs := make([]*domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if keep(j) {
			jobs = append(jobs, s.jobView(j))
		}
	}
	sort.Slice(jobs, func(i, k int) bool {
		if jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].ID > jobs[k].ID
		}
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
	return jobs
}

// jobView copies j and joins the employer's public details, like the SQL join does.
func (s *Store) jobView(j *domain.Job) *domain.Job {
	if j == nil {
		return nil
	}
	cp := *j
	cp.Salary = copySalary(j.Salary)
	cp.Applications = nil
	if u, ok := s.users[j.EmployerID]; ok {
		cp.Employer = u.Summary()
	}
	return &cp
}

func sortApplications(apps []*domain.Application) {
	sort.Slice(apps, func(i, k int) bool {
		if apps[i].AppliedAt.Equal(apps[k].AppliedAt) {
			return apps[i].ID > apps[k].ID
		}
		return apps[i].AppliedAt.After(apps[k].AppliedAt)
	})
}

func copySalary(v *int64) *int64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
