// Package seed fills a database with random or demo data for local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/utils"
)

var ErrNoEmployers = errors.New("no employers to own the jobs")

type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	CreateJob(ctx context.Context, job *domain.Job) error
	ListJobsByEmployer(ctx context.Context, employerID int64) ([]*domain.Job, error)
}

const (
	DemoEmployerEmail = "employer@test.com"
	DemoEmployerName  = "Test Employer"
	DemoJobTitle      = "Full Stack Developer"
)

// RandomUsers inserts n random users sharing one password and returns how many were stored.
// Email collisions are logged and skipped.
func RandomUsers(ctx context.Context, store Store, n int, password, emailDomain string) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid user count %d", n)
	}

	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomain)
		if err != nil {
			return cnt, err
		}

		if err := store.CreateUser(ctx, user); err != nil {
			slog.Error("failed to insert user", slog.String("email", user.Email), slog.String("error", err.Error()))
			continue
		}

		cnt++
	}

	return cnt, nil
}

// RandomJobs inserts n random jobs, each owned by a randomly picked existing employer.
func RandomJobs(ctx context.Context, store Store, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid job count %d", n)
	}

	users, err := store.GetAllUsers(ctx)
	if err != nil {
		return 0, err
	}

	employers := make([]*domain.User, 0)
	for _, u := range users {
		if u.Role == domain.RoleEmployer {
			employers = append(employers, u)
		}
	}
	if len(employers) == 0 {
		return 0, ErrNoEmployers
	}

	cnt := 0
	for i := 0; i < n; i++ {
		employer := employers[rand.Intn(len(employers))]

		job := utils.GenerateRandomJob(employer.ID)
		if err := store.CreateJob(ctx, job); err != nil {
			slog.Error("failed to insert job", slog.String("error", err.Error()))
			continue
		}

		cnt++
	}

	return cnt, nil
}

// Demo ensures the demo employer and its job exist. Running it again changes nothing.
func Demo(ctx context.Context, store Store, password string) (*domain.User, *domain.Job, error) {
	employer, err := store.GetUserByEmail(ctx, DemoEmployerEmail)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, nil, err
		}

		employer = &domain.User{
			Email:        DemoEmployerEmail,
			PasswordHash: hash,
			Name:         DemoEmployerName,
			Role:         domain.RoleEmployer,
		}
		if err := store.CreateUser(ctx, employer); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	}

	jobs, err := store.ListJobsByEmployer(ctx, employer.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, j := range jobs {
		if j.Title == DemoJobTitle {
			return employer, j, nil
		}
	}

	salary := int64(85000)
	job := &domain.Job{
		Title:       DemoJobTitle,
		Description: "We are looking for a skilled Full Stack Developer to build and ship features across our web stack.",
		Company:     "Tech Solutions Inc.",
		Location:    "Remote",
		Salary:      &salary,
		EmployerID:  employer.ID,
	}
	if err := store.CreateJob(ctx, job); err != nil {
		return nil, nil, err
	}

	return employer, job, nil
}
