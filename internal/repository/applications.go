package repository

import (
	"context"
	"database/sql"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

// CreateApplication inserts a pending application. The (job_id, applicant_id) unique
// constraint makes concurrent duplicates fail with domain.ErrAlreadyApplied.
func (r *Repository) CreateApplication(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (job_id, applicant_id)
		VALUES ($1, $2)
		RETURNING id, status, applied_at
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	dst := []any{&app.ID, &app.Status, &app.AppliedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, app.JobID, app.ApplicantID).Scan(dst...); err != nil {
		return translateError(err)
	}

	return nil
}

// GetApplication returns the application with its job (including the owning employer id).
func (r *Repository) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.status, a.applied_at,
			` + jobColumns + `
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = j.employer_id
		WHERE a.id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	app, err := scanApplicationWithJob(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}

	return app, nil
}

func (r *Repository) ListApplicationsByApplicant(ctx context.Context, applicantID int64) ([]*domain.Application, error) {
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.status, a.applied_at,
			` + jobColumns + `
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = j.employer_id
		WHERE a.applicant_id = $1
		ORDER BY a.applied_at DESC, a.id DESC
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app, err := scanApplicationWithJob(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// ListApplicationsForEmployer returns every application to any job owned by employerID,
// with the applicant's public details, newest first.
func (r *Repository) ListApplicationsForEmployer(ctx context.Context, employerID int64) ([]*domain.Application, error) {
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.status, a.applied_at,
			u.name, u.email
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = a.applicant_id
		WHERE j.employer_id = $1
		ORDER BY a.applied_at DESC, a.id DESC
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app := &domain.Application{Applicant: &domain.UserSummary{}}
		dst := []any{
			&app.ID,
			&app.JobID,
			&app.ApplicantID,
			&app.Status,
			&app.AppliedAt,
			&app.Applicant.Name,
			&app.Applicant.Email,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		app.Applicant.ID = app.ApplicantID
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// UpdateApplicationStatus moves the application to status only while it is still in from.
// A row that is missing or no longer in from yields domain.ErrNotFound.
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id int64, from, status domain.ApplicationStatus) error {
	query := `
		UPDATE applications
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, status, id, from)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *Repository) DeleteApplication(ctx context.Context, id int64) error {
	query := `
		DELETE FROM applications WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanApplicationWithJob(row jobScanner) (*domain.Application, error) {
	app := &domain.Application{}
	job := &domain.Job{Employer: &domain.UserSummary{}}
	var salary sql.NullInt64

	dst := []any{
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&app.Status,
		&app.AppliedAt,
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Company,
		&job.Location,
		&salary,
		&job.EmployerID,
		&job.CreatedAt,
		&job.Employer.Name,
		&job.Employer.Email,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	job.Employer.ID = job.EmployerID
	if salary.Valid {
		job.Salary = &salary.Int64
	}
	app.Job = job

	return app, nil
}
