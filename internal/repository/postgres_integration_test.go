//go:build integration

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobboard-dev/jobboard/backend/internal/config"
	"github.com/jobboard-dev/jobboard/backend/internal/database/migration"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
	"github.com/jobboard-dev/jobboard/backend/migrations"
)

// Run with: JOBBOARD_TEST_DATABASE_DSN=postgres://... go test -tags integration ./internal/repository/
//
// Every test gets its own schema, migrated from scratch and dropped afterwards.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("JOBBOARD_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("JOBBOARD_TEST_DATABASE_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	schema := "test_" + uuid.NewString()[:8]
	_, err = admin.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA %q`, schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), fmt.Sprintf(`DROP SCHEMA %q CASCADE`, schema))
	})

	connConfig, err := pgx.ParseConfig(dsn)
	require.NoError(t, err)
	connConfig.RuntimeParams["search_path"] = schema

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migration.Runner{FS: migrations.FS}.Run(ctx, db))

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 10

	return NewRepository(cfg, db)
}

func createUser(t *testing.T, r *Repository, email string, role domain.Role) *domain.User {
	t.Helper()

	user := &domain.User{Email: email, PasswordHash: "hash", Name: "User " + email, Role: role}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func createJob(t *testing.T, r *Repository, owner *domain.User, title string) *domain.Job {
	t.Helper()

	salary := int64(85000)
	job := &domain.Job{
		Title:       title,
		Description: "Build things",
		Company:     "Acme",
		Location:    "Remote",
		Salary:      &salary,
		EmployerID:  owner.ID,
	}
	require.NoError(t, r.CreateJob(context.Background(), job))
	return job
}

func TestPostgresDuplicateEmail(t *testing.T) {
	r := newTestRepository(t)
	createUser(t, r, "dup@example.com", domain.RoleJobSeeker)

	err := r.CreateUser(context.Background(), &domain.User{
		Email: "dup@example.com", PasswordHash: "hash", Name: "Again", Role: domain.RoleEmployer,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestPostgresForeignKeysReadAsNotFound(t *testing.T) {
	r := newTestRepository(t)
	seeker := createUser(t, r, "seeker@example.com", domain.RoleJobSeeker)
	ctx := context.Background()

	err := r.CreateJob(ctx, &domain.Job{Title: "Ghost", EmployerID: 999999})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = r.CreateApplication(ctx, &domain.Application{JobID: 999999, ApplicantID: seeker.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresListJobsNewestFirst(t *testing.T) {
	r := newTestRepository(t)
	owner := createUser(t, r, "owner@example.com", domain.RoleEmployer)
	createJob(t, r, owner, "Older")
	createJob(t, r, owner, "Newer")

	jobs, err := r.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Newer", jobs[0].Title)
	require.NotNil(t, jobs[0].Employer)
	assert.Equal(t, owner.Email, jobs[0].Employer.Email)
	require.NotNil(t, jobs[0].Salary)
	assert.EqualValues(t, 85000, *jobs[0].Salary)
}

func TestPostgresConcurrentApplyStoresOne(t *testing.T) {
	r := newTestRepository(t)
	owner := createUser(t, r, "owner@example.com", domain.RoleEmployer)
	seeker := createUser(t, r, "seeker@example.com", domain.RoleJobSeeker)
	job := createJob(t, r, owner, "Popular")

	const n = 10
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.CreateApplication(context.Background(), &domain.Application{JobID: job.ID, ApplicantID: seeker.ID})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	}
	assert.Equal(t, 1, succeeded)

	apps, err := r.ListApplicationsByApplicant(context.Background(), seeker.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, domain.ApplicationStatusPending, apps[0].Status)
}

func TestPostgresStatusUpdateIsConditional(t *testing.T) {
	r := newTestRepository(t)
	owner := createUser(t, r, "owner@example.com", domain.RoleEmployer)
	seeker := createUser(t, r, "seeker@example.com", domain.RoleJobSeeker)
	job := createJob(t, r, owner, "Role")
	ctx := context.Background()

	app := &domain.Application{JobID: job.ID, ApplicantID: seeker.ID}
	require.NoError(t, r.CreateApplication(ctx, app))

	require.NoError(t, r.UpdateApplicationStatus(ctx, app.ID, domain.ApplicationStatusPending, domain.ApplicationStatusApproved))

	err := r.UpdateApplicationStatus(ctx, app.ID, domain.ApplicationStatusPending, domain.ApplicationStatusRejected)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := r.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, stored.Status)
	assert.Equal(t, owner.ID, stored.Job.EmployerID)
}

func TestPostgresConcurrentDecisionsApplyOnce(t *testing.T) {
	r := newTestRepository(t)
	owner := createUser(t, r, "owner@example.com", domain.RoleEmployer)
	seeker := createUser(t, r, "seeker@example.com", domain.RoleJobSeeker)
	job := createJob(t, r, owner, "Role")
	applications := service.NewApplicationService(r, nil)
	ctx := context.Background()

	app, err := applications.Apply(ctx, job.ID, seeker.ID)
	require.NoError(t, err)

	targets := []domain.ApplicationStatus{domain.ApplicationStatusApproved, domain.ApplicationStatusRejected}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, status := range targets {
		wg.Add(1)
		go func(i int, status domain.ApplicationStatus) {
			defer wg.Done()
			_, errs[i] = applications.UpdateStatus(ctx, app.ID, owner.ID, status)
		}(i, status)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	}
	assert.Equal(t, 1, succeeded)
}

func TestPostgresDeleteJobCascadesToApplications(t *testing.T) {
	r := newTestRepository(t)
	owner := createUser(t, r, "owner@example.com", domain.RoleEmployer)
	seeker := createUser(t, r, "seeker@example.com", domain.RoleJobSeeker)
	job := createJob(t, r, owner, "Short lived")
	ctx := context.Background()

	app := &domain.Application{JobID: job.ID, ApplicantID: seeker.ID}
	require.NoError(t, r.CreateApplication(ctx, app))

	require.NoError(t, r.DeleteJob(ctx, job.ID))

	_, err := r.GetApplication(ctx, app.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.DeleteJob(ctx, job.ID), domain.ErrNotFound)

	apps, err := r.ListApplicationsByApplicant(ctx, seeker.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}
