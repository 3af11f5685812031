package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobboard-dev/jobboard/backend/internal/config"
	"github.com/jobboard-dev/jobboard/backend/internal/repository"
	"github.com/jobboard-dev/jobboard/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation to run (1: random users, 2: random jobs, 3: demo employer and job)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("failed to read .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect, so ping explicitly
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		logger.Error("no operation given")
	case 1:
		cnt, err := seed.RandomUsers(context.Background(), repo, n, cfg.Seed.User.Password, cfg.Seed.EmailDomain)
		if err != nil {
			logger.Error("failed to insert users", slog.String("error", err.Error()))
			return
		}
		logger.Info("inserted users", slog.Int("count", cnt))
	case 2:
		cnt, err := seed.RandomJobs(context.Background(), repo, n)
		if err != nil {
			logger.Error("failed to insert jobs", slog.String("error", err.Error()))
			return
		}
		logger.Info("inserted jobs", slog.Int("count", cnt))
	case 3:
		employer, job, err := seed.Demo(context.Background(), repo, cfg.Seed.User.Password)
		if err != nil {
			logger.Error("failed to insert demo data", slog.String("error", err.Error()))
			return
		}
		logger.Info("demo data ready",
			slog.Int64("employer_id", employer.ID),
			slog.String("email", employer.Email),
			slog.Int64("job_id", job.ID),
		)
	default:
		logger.Error("unknown operation", slog.Int("op", op))
	}
}
