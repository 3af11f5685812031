package repository

import (
	"context"
	"database/sql"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

// the employer join only ever selects public columns
const jobColumns = `
	j.id, j.title, j.description, j.company, j.location, j.salary, j.employer_id, j.created_at,
	u.name, u.email
`

type jobScanner interface {
	Scan(dest ...any) error
}

func scanJob(row jobScanner) (*domain.Job, error) {
	job := &domain.Job{Employer: &domain.UserSummary{}}
	var salary sql.NullInt64

	dst := []any{
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

	return job, nil
}

func (r *Repository) queryJobs(ctx context.Context, query string, args ...any) ([]*domain.Job, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		JOIN users u ON u.id = j.employer_id
		ORDER BY j.created_at DESC, j.id DESC
	`

	return r.queryJobs(ctx, query)
}

func (r *Repository) ListJobsByEmployer(ctx context.Context, employerID int64) ([]*domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		JOIN users u ON u.id = j.employer_id
		WHERE j.employer_id = $1
		ORDER BY j.created_at DESC, j.id DESC
	`

	return r.queryJobs(ctx, query, employerID)
}

func (r *Repository) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		JOIN users u ON u.id = j.employer_id
		WHERE j.id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	job, err := scanJob(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}

	return job, nil
}

func (r *Repository) CreateJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (title, description, company, location, salary, employer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{job.Title, job.Description, job.Company, job.Location, job.Salary, job.EmployerID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.ID, &job.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

// UpdateJob rewrites the mutable fields and refreshes the remaining columns of job from the row.
func (r *Repository) UpdateJob(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET
			title = $1,
			description = $2,
			company = $3,
			location = $4,
			salary = $5
		WHERE id = $6
		RETURNING employer_id, created_at
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{job.Title, job.Description, job.Company, job.Location, job.Salary, job.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.EmployerID, &job.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) DeleteJob(ctx context.Context, id int64) error {
	query := `
		DELETE FROM jobs WHERE id = $1
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
