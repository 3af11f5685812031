package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterIssuesTokenAndHashesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, token, err := f.auth.Register(ctx, service.RegisterInput{
		Email:    "  Ada@Example.com ",
		Password: "password123",
		Name:     "Ada",
		Role:     domain.RoleJobSeeker,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada@Example.com", user.Email, "email is trimmed but keeps its case")
	assert.NotEqual(t, "password123", user.PasswordHash)

	id, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, user.Email, id.Email)

	msgs := f.notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MailTypeWelcome, msgs[0].Type)
	assert.Equal(t, "Ada@Example.com", msgs[0].To)
}

func TestRegisterTwiceWithSameEmailConflicts(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dup@example.com", domain.RoleJobSeeker)

	_, _, err := f.auth.Register(context.Background(), service.RegisterInput{
		Email:    "dup@example.com",
		Password: "another-password",
		Name:     "Someone Else",
		Role:     domain.RoleEmployer,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterSurvivesNotifierOutage(t *testing.T) {
	f := newFixture(t)
	f.notifier.Err = errBoom

	_, _, err := f.auth.Register(context.Background(), service.RegisterInput{
		Email: "a@example.com", Password: "password123", Name: "A", Role: domain.RoleJobSeeker,
	})
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "bob@example.com", domain.RoleEmployer)
	ctx := context.Background()

	user, token, err := f.auth.Authenticate(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, wrongPassword := f.auth.Authenticate(ctx, "bob@example.com", "nope")
	_, _, unknownEmail := f.auth.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticateFailuresBothCompareAHash(t *testing.T) {
	f := newFixture(t)
	f.register(t, "erin@example.com", domain.RoleJobSeeker)
	ctx := context.Background()

	var compared []string
	f.auth.SetPasswordChecker(func(hash, password string) (bool, error) {
		compared = append(compared, hash)
		return auth.CheckPassword(hash, password)
	})

	_, _, err := f.auth.Authenticate(ctx, "erin@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = f.auth.Authenticate(ctx, "nobody@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.Len(t, compared, 2)
	for _, hash := range compared {
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	}
}

func TestAuthenticateFailureTimingDoesNotRevealAccounts(t *testing.T) {
	f := newFixture(t)
	f.register(t, "fay@example.com", domain.RoleJobSeeker)
	ctx := context.Background()

	fastest := func(email string) time.Duration {
		best := time.Duration(math.MaxInt64)
		for i := 0; i < 3; i++ {
			start := time.Now()
			_, _, err := f.auth.Authenticate(ctx, email, "wrong")
			require.ErrorIs(t, err, domain.ErrInvalidCredentials)
			best = min(best, time.Since(start))
		}
		return best
	}

	wrongPassword := fastest("fay@example.com")
	unknownEmail := fastest("nobody@example.com")
	assert.Greater(t, unknownEmail, wrongPassword/5)
}

func TestAuthenticateEmailIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Case@example.com", domain.RoleJobSeeker)

	_, _, err := f.auth.Authenticate(context.Background(), "case@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateLocksOutAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "carol@example.com", domain.RoleJobSeeker)
	limiter := newMemLimiter()
	f.auth.WithAttemptLimiter(limiter, service.LoginPolicy{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := f.auth.Authenticate(ctx, "carol@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	_, _, err := f.auth.Authenticate(ctx, "carol@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	// unknown emails are counted the same way
	for i := 0; i < 3; i++ {
		_, _, _ = f.auth.Authenticate(ctx, "ghost@example.com", "x")
	}
	_, _, err = f.auth.Authenticate(ctx, "ghost@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestAuthenticateSuccessResetsFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dan@example.com", domain.RoleJobSeeker)
	limiter := newMemLimiter()
	f.auth.WithAttemptLimiter(limiter, service.LoginPolicy{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, _ = f.auth.Authenticate(ctx, "dan@example.com", "wrong")
	}
	_, _, err := f.auth.Authenticate(ctx, "dan@example.com", "password123")
	require.NoError(t, err)

	n, _ := limiter.Attempts(ctx, "login:attempts:dan@example.com")
	assert.Zero(t, n)
}

func TestAuthenticateFailsOpenWhenLimiterIsDown(t *testing.T) {
	f := newFixture(t)
	f.register(t, "erin@example.com", domain.RoleJobSeeker)
	limiter := newMemLimiter()
	limiter.err = errBoom
	f.auth.WithAttemptLimiter(limiter, service.LoginPolicy{MaxAttempts: 1, Window: time.Minute})

	_, _, err := f.auth.Authenticate(context.Background(), "erin@example.com", "password123")
	assert.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "fay@example.com", domain.RoleJobSeeker)
	ctx := context.Background()

	got, err := f.auth.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	f.store.DeleteUser(user.ID)
	_, err = f.auth.CurrentUser(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
