package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobboard-dev/jobboard/backend/internal/client"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

func jobBody(salary any) map[string]any {
	body := map[string]any{
		"title":       "Backend Engineer",
		"description": "Build APIs",
		"company":     "Acme",
		"location":    "Remote",
	}
	if salary != nil {
		body["salary"] = salary
	}
	return body
}

func TestListJobsIsPublicAndHidesSecrets(t *testing.T) {
	srv := newTestServer(t)
	employer, _ := srv.signUp(t, "boss@test.com", domain.RoleEmployer)
	srv.postJob(t, employer, "First")
	srv.postJob(t, employer, "Second")

	status, body := srv.call(t, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body.Data), "password")

	jobs := decode[[]domain.Job](t, body.Data)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Second", jobs[0].Title)
	require.NotNil(t, jobs[0].Employer)
	assert.Equal(t, "boss@test.com", jobs[0].Employer.Email)
}

func TestListJobsEmpty(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.call(t, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body.Data))
}

func TestGetJob(t *testing.T) {
	srv := newTestServer(t)
	employer, _ := srv.signUp(t, "boss@test.com", domain.RoleEmployer)
	job := srv.postJob(t, employer, "Only")

	status, body := srv.call(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d", job.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Only", decode[domain.Job](t, body.Data).Title)

	status, _ = srv.call(t, http.MethodGet, "/api/jobs/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateJobSalary(t *testing.T) {
	srv := newTestServer(t)
	employer, _ := srv.signUp(t, "boss@test.com", domain.RoleEmployer)
	token := employer.Session().Token

	cases := []struct {
		name   string
		salary any
		want   *int64
	}{
		{"number", 85000, ptr(85000)},
		{"numeric string", "120000", ptr(120000)},
		{"absent", nil, nil},
		{"unparseable", "competitive", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := srv.call(t, http.MethodPost, "/api/jobs", token, jobBody(tc.salary))
			require.Equal(t, http.StatusCreated, status)
			assert.Equal(t, tc.want, decode[domain.Job](t, body.Data).Salary)
		})
	}

	status, _ := srv.call(t, http.MethodPost, "/api/jobs", token, jobBody(-5))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateJobValidation(t *testing.T) {
	srv := newTestServer(t)
	employer, _ := srv.signUp(t, "boss@test.com", domain.RoleEmployer)

	body := jobBody(nil)
	delete(body, "title")
	status, resp := srv.call(t, http.MethodPost, "/api/jobs", employer.Session().Token, body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Message, "title")
	assert.Zero(t, srv.store.CountJobs())
}

func TestCreateJobRequiresEmployer(t *testing.T) {
	srv := newTestServer(t)
	seeker, _ := srv.signUp(t, "seeker@test.com", domain.RoleJobSeeker)

	status, _ := srv.call(t, http.MethodPost, "/api/jobs", seeker.Session().Token, jobBody(nil))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Zero(t, srv.store.CountJobs())
}

func TestUpdateJobOwnership(t *testing.T) {
	srv := newTestServer(t)
	owner, _ := srv.signUp(t, "owner@test.com", domain.RoleEmployer)
	other, _ := srv.signUp(t, "other@test.com", domain.RoleEmployer)
	job := srv.postJob(t, owner, "Original")
	ctx := context.Background()
	update := client.JobRequest{Title: "Renamed", Description: "d", Company: "c", Location: "l"}

	_, err := other.UpdateJob(ctx, job.ID, update)
	assert.Equal(t, http.StatusForbidden, client.StatusCode(err))

	got, err := owner.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	updated, err := owner.UpdateJob(ctx, job.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, job.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = owner.UpdateJob(ctx, 999, update)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))
}

func TestDeleteJobOwnership(t *testing.T) {
	srv := newTestServer(t)
	owner, _ := srv.signUp(t, "owner@test.com", domain.RoleEmployer)
	other, _ := srv.signUp(t, "other@test.com", domain.RoleEmployer)
	job := srv.postJob(t, owner, "Doomed")
	ctx := context.Background()

	err := other.DeleteJob(ctx, job.ID)
	assert.Equal(t, http.StatusForbidden, client.StatusCode(err))
	assert.Equal(t, 1, srv.store.CountJobs())

	status, _ := srv.call(t, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", job.ID), owner.Session().Token, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, srv.store.CountJobs())

	err = owner.DeleteJob(ctx, job.ID)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))
}

func TestEmployerJobsListsOnlyOwnJobs(t *testing.T) {
	srv := newTestServer(t)
	owner, _ := srv.signUp(t, "owner@test.com", domain.RoleEmployer)
	other, _ := srv.signUp(t, "other@test.com", domain.RoleEmployer)
	srv.postJob(t, owner, "Mine")
	srv.postJob(t, other, "Theirs")

	jobs, err := owner.EmployerJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Mine", jobs[0].Title)
	assert.NotNil(t, jobs[0].Applications)
	assert.Empty(t, jobs[0].Applications)
}

func ptr(v int64) *int64 { return &v }
