package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

type JobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      *int64 `json:"salary,omitempty"`
}

type authResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var res authResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &res, false); err != nil {
		return nil, err
	}
	c.setSession(Session{Token: res.Token, User: res.User})
	return res.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}

	var res authResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &res, false); err != nil {
		return nil, err
	}
	c.setSession(Session{Token: res.Token, User: res.User})
	return res.User, nil
}

// Me re-fetches the signed-in user and refreshes the session copy.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user, true); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.session.Authenticated() {
		c.session.User = &user
	}
	c.mu.Unlock()

	return &user, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, false)
}

func (c *Client) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	var jobs []*domain.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &jobs, false); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/jobs/%d", id), nil, &job, false); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, req JobRequest) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", req, &job, true); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id int64, req JobRequest) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/jobs/%d", id), req, &job, true); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", id), nil, nil, true)
}

func (c *Client) Apply(ctx context.Context, jobID int64) (*domain.Application, error) {
	var app domain.Application
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), nil, &app, true); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) MyApplications(ctx context.Context) ([]*domain.Application, error) {
	var apps []*domain.Application
	if err := c.do(ctx, http.MethodGet, "/api/applications/me", nil, &apps, true); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) Withdraw(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/applications/%d", id), nil, nil, true)
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	body := map[string]domain.ApplicationStatus{"status": status}

	var app domain.Application
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/applications/%d/status", id), body, &app, true); err != nil {
		return nil, err
	}
	return &app, nil
}

// EmployerJobs lists the signed-in employer's jobs with their applications.
func (c *Client) EmployerJobs(ctx context.Context) ([]*domain.Job, error) {
	var jobs []*domain.Job
	if err := c.do(ctx, http.MethodGet, "/api/employer/jobs", nil, &jobs, true); err != nil {
		return nil, err
	}
	return jobs, nil
}
