// Package service holds the job board's business rules: credentials, job ownership and the
// application lifecycle. Storage, caching and mail delivery are reached through the ports below.
package service

import (
	"context"
	"time"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type JobStore interface {
	ListJobs(ctx context.Context) ([]*domain.Job, error)
	ListJobsByEmployer(ctx context.Context, employerID int64) ([]*domain.Job, error)
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	CreateJob(ctx context.Context, job *domain.Job) error
	UpdateJob(ctx context.Context, job *domain.Job) error
	DeleteJob(ctx context.Context, id int64) error
}

type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *domain.Application) error
	GetApplication(ctx context.Context, id int64) (*domain.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID int64) ([]*domain.Application, error)
	ListApplicationsForEmployer(ctx context.Context, employerID int64) ([]*domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, from, status domain.ApplicationStatus) error
	DeleteApplication(ctx context.Context, id int64) error
}

type Store interface {
	UserStore
	JobStore
	ApplicationStore
}

// Cache stores JSON values. A miss is (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AttemptLimiter counts events per key inside a sliding expiry window.
type AttemptLimiter interface {
	Attempts(ctx context.Context, key string) (int64, error)
	RecordAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
	ResetAttempts(ctx context.Context, key string) error
}

type Notifier interface {
	Notify(ctx context.Context, msg domain.MailMessage) error
}
