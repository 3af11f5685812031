package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

type LoginPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

type AuthService struct {
	users         UserStore
	tokens        *auth.TokenService
	notifier      Notifier
	limiter       AttemptLimiter
	policy        LoginPolicy
	checkPassword func(hash, password string) (bool, error)
}

// dummyPasswordHash is compared against when the email is unknown, so both login
// failures cost one bcrypt comparison.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("not-a-real-password")
	if err != nil {
		panic(fmt.Sprintf("hash dummy password: %v", err))
	}
	return hash
})

func NewAuthService(users UserStore, tokens *auth.TokenService, notifier Notifier) *AuthService {
	dummyPasswordHash()

	return &AuthService{
		users:         users,
		tokens:        tokens,
		notifier:      notifier,
		checkPassword: auth.CheckPassword,
	}
}

// WithAttemptLimiter enables lockout after policy.MaxAttempts failed logins for one email.
func (s *AuthService) WithAttemptLimiter(limiter AttemptLimiter, policy LoginPolicy) *AuthService {
	s.limiter = limiter
	s.policy = policy
	return s
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	notify(ctx, s.notifier, domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   user.Email,
		Data: domain.WelcomeMailData{Name: user.Name, Role: user.Role},
	})

	return user, token, nil
}

// Authenticate reports an unknown email and a wrong password identically as
// domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	key := loginAttemptKey(email)

	if s.limited(ctx, key) {
		return nil, "", domain.ErrTooManyAttempts
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_, _ = s.checkPassword(dummyPasswordHash(), password)
			s.recordFailure(ctx, key)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	ok, err := s.checkPassword(user.PasswordHash, password)
	if err != nil {
		return nil, "", fmt.Errorf("check password: %w", err)
	}
	if !ok {
		s.recordFailure(ctx, key)
		return nil, "", domain.ErrInvalidCredentials
	}

	s.resetFailures(ctx, key)

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}

func (s *AuthService) VerifyToken(token string) (auth.Identity, error) {
	return s.tokens.Verify(token)
}

func loginAttemptKey(email string) string {
	return "login:attempts:" + email
}

// limiter failures never block a login
func (s *AuthService) limited(ctx context.Context, key string) bool {
	if s.limiter == nil || s.policy.MaxAttempts <= 0 {
		return false
	}
	n, err := s.limiter.Attempts(ctx, key)
	if err != nil {
		slog.Warn("login attempt limiter unavailable", "error", err)
		return false
	}
	return n >= int64(s.policy.MaxAttempts)
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil || s.policy.MaxAttempts <= 0 {
		return
	}
	if _, err := s.limiter.RecordAttempt(ctx, key, s.policy.Window); err != nil {
		slog.Warn("failed to record login attempt", "error", err)
	}
}

func (s *AuthService) resetFailures(ctx context.Context, key string) {
	if s.limiter == nil || s.policy.MaxAttempts <= 0 {
		return
	}
	if err := s.limiter.ResetAttempts(ctx, key); err != nil {
		slog.Warn("failed to reset login attempts", "error", err)
	}
}

// notify is best effort: the request already succeeded, so a queue outage is only logged.
func notify(ctx context.Context, n Notifier, msg domain.MailMessage) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, msg); err != nil {
		slog.Error("failed to publish mail message", "type", msg.Type, "to", msg.To, "error", err)
	}
}
