package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/client"
	"github.com/jobboard-dev/jobboard/backend/internal/config"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/handler"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
	"github.com/jobboard-dev/jobboard/backend/internal/service/servicetest"
)

type fakeDB struct {
	down atomic.Bool
}

func (db *fakeDB) Ping(context.Context) error {
	if db.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

type testServer struct {
	*httptest.Server
	store    *servicetest.Store
	notifier *servicetest.Notifier
	tokens   *auth.TokenService
	db       *fakeDB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}

	tokens, err := auth.NewTokenService("handler-test-secret")
	require.NoError(t, err)

	store := servicetest.NewStore()
	notifier := &servicetest.Notifier{}
	db := &fakeDB{}

	h, err := handler.NewHandler(
		cfg,
		service.NewAuthService(store, tokens, notifier),
		service.NewJobService(store),
		service.NewApplicationService(store, notifier),
		db,
	)
	require.NoError(t, err)
	h.RegisterRoutes()

	srv := httptest.NewServer(h.Mux)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: store, notifier: notifier, tokens: tokens, db: db}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call sends a raw request. body may be a string (sent verbatim) or any JSON-encodable value.
func (s *testServer) call(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, s.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func (s *testServer) newClient() *client.Client {
	return client.New(s.URL, client.WithHTTPClient(s.Client()))
}

// signUp registers a user through the API and returns a client signed in as them.
func (s *testServer) signUp(t *testing.T, email string, role domain.Role) (*client.Client, *domain.User) {
	t.Helper()

	c := s.newClient()
	user, err := c.Register(context.Background(), client.RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     strings.Split(email, "@")[0],
		Role:     role,
	})
	require.NoError(t, err)
	return c, user
}

func (s *testServer) postJob(t *testing.T, c *client.Client, title string) *domain.Job {
	t.Helper()

	job, err := c.CreateJob(context.Background(), client.JobRequest{
		Title:       title,
		Description: "Ship features",
		Company:     "Acme",
		Location:    "Remote",
	})
	require.NoError(t, err)
	return job
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
