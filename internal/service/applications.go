package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

type ApplicationService struct {
	store    Store
	notifier Notifier
}

func NewApplicationService(store Store, notifier Notifier) *ApplicationService {
	return &ApplicationService{
		store:    store,
		notifier: notifier,
	}
}

// Apply creates a pending application. Duplicates are rejected by the store's uniqueness
// constraint rather than a prior lookup, so concurrent calls cannot both succeed.
func (s *ApplicationService) Apply(ctx context.Context, jobID, applicantID int64) (*domain.Application, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", jobID, err)
	}

	app := &domain.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      domain.ApplicationStatusPending,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	app.Job = job

	s.notifyEmployer(ctx, job, applicantID)

	return app, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, applicantID int64) ([]*domain.Application, error) {
	apps, err := s.store.ListApplicationsByApplicant(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("list applications of %d: %w", applicantID, err)
	}
	return apps, nil
}

// Withdraw deletes the caller's own application. Someone else's application is reported as
// not found so its existence is not revealed.
func (s *ApplicationService) Withdraw(ctx context.Context, id, applicantID int64) error {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return fmt.Errorf("get application %d: %w", id, err)
	}
	if app.ApplicantID != applicantID {
		return domain.ErrNotFound
	}

	if err := s.store.DeleteApplication(ctx, id); err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	return nil
}

// UpdateStatus lets the owner of the application's job decide a pending application.
// Decided applications are terminal: any further change fails with
// domain.ErrInvalidStatusTransition.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, employerID int64, status domain.ApplicationStatus) (*domain.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, err)
	}
	if app.Job == nil || app.Job.EmployerID != employerID {
		return nil, domain.ErrForbidden
	}
	if !app.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidStatusTransition
	}

	if err := s.store.UpdateApplicationStatus(ctx, id, app.Status, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// decided or withdrawn between the read and the write
			return nil, domain.ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("update application %d: %w", id, err)
	}
	app.Status = status

	s.notifyApplicant(ctx, app)

	return app, nil
}

func (s *ApplicationService) notifyEmployer(ctx context.Context, job *domain.Job, applicantID int64) {
	if s.notifier == nil || job.Employer == nil {
		return
	}
	applicant, err := s.store.GetUserByID(ctx, applicantID)
	if err != nil {
		slog.Warn("skip application notification", "applicant_id", applicantID, "error", err)
		return
	}

	notify(ctx, s.notifier, domain.MailMessage{
		Type: domain.MailTypeApplicationReceived,
		To:   job.Employer.Email,
		Data: domain.ApplicationReceivedMailData{
			EmployerName:   job.Employer.Name,
			ApplicantName:  applicant.Name,
			ApplicantEmail: applicant.Email,
			JobTitle:       job.Title,
		},
	})
}

func (s *ApplicationService) notifyApplicant(ctx context.Context, app *domain.Application) {
	if s.notifier == nil {
		return
	}
	applicant, err := s.store.GetUserByID(ctx, app.ApplicantID)
	if err != nil {
		slog.Warn("skip status notification", "applicant_id", app.ApplicantID, "error", err)
		return
	}

	notify(ctx, s.notifier, domain.MailMessage{
		Type: domain.MailTypeApplicationStatusChanged,
		To:   applicant.Email,
		Data: domain.ApplicationStatusChangedMailData{
			ApplicantName: applicant.Name,
			JobTitle:      app.Job.Title,
			Company:       app.Job.Company,
			Status:        app.Status,
		},
	})
}
