package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jobboard-dev/jobboard/backend/internal/config"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

const (
	constraintUsersEmail          = "users_email_key"
	constraintApplicationsJobUser = "applications_job_id_applicant_id_key"
	constraintJobsEmployer        = "jobs_employer_id_fkey"
	constraintApplicationsJob     = "applications_job_id_fkey"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.PingContext(ctx)
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// translateError maps driver errors onto domain errors so callers never see SQL details.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case constraintUsersEmail:
			return domain.ErrEmailTaken
		case constraintApplicationsJobUser:
			return domain.ErrAlreadyApplied
		case constraintJobsEmployer, constraintApplicationsJob:
			return domain.ErrNotFound
		}
	}

	return err
}
