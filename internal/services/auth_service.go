package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"press_admin/internal/apperrors"
	"press_admin/internal/metrics"
	"press_admin/internal/models"
	"press_admin/internal/redis"
	"press_admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidLogin = fmt.Errorf("%w: invalid credentials or role", apperrors.ErrUnauthorized)

type SessionStore interface {
	SetSession(ctx context.Context, sessionID string, data *redis.SessionData, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin staff customer"`
	Remember bool   `json:"remember"`
}

type Session struct {
	ID        string             `json:"session_id"`
	Data      *redis.SessionData `json:"session"`
	ExpiresIn time.Duration      `json:"-"`
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*redis.SessionData, error)
}

type authService struct {
	store       repository.Store
	sessions    SessionStore
	ttl         time.Duration
	rememberTTL time.Duration
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewAuthService(store repository.Store, sessions SessionStore, ttl, rememberTTL time.Duration, m *metrics.Metrics, log *zap.Logger) AuthService {
	return &authService{
		store:       store,
		sessions:    sessions,
		ttl:         ttl,
		rememberTTL: rememberTTL,
		metrics:     m,
		log:         log,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// burnCompare spends the same bcrypt work as a real password check so unknown
// usernames are not answered faster than wrong passwords.
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("press-admin-placeholder"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// roleMatches checks the login portal the user picked against the account.
func roleMatches(account *models.Account, role string) bool {
	switch role {
	case "admin":
		return account.IsSuperuser
	case "staff":
		return account.Role == models.RoleStaff
	case "customer":
		return account.Role == models.RoleCustomer
	}
	return false
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	account, err := s.store.Accounts().GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			burnCompare(in.Password)
			s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, ErrInvalidLogin
		}
		return nil, err
	}

	if account.IsDeleted ||
		bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil ||
		!roleMatches(account, in.Role) {
		s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.log.Info("login rejected", zap.String("username", in.Username), zap.String("role", in.Role))
		return nil, ErrInvalidLogin
	}

	ttl := s.ttl
	if in.Remember {
		ttl = s.rememberTTL
	}
	session := &Session{
		ID: uuid.NewString(),
		Data: &redis.SessionData{
			AccountID:   account.ID,
			Username:    account.Username,
			Role:        string(account.RoleLabel()),
			IsSuperuser: account.IsSuperuser,
			Remember:    in.Remember,
			CreatedAt:   time.Now(),
		},
		ExpiresIn: ttl,
	}
	if err := s.sessions.SetSession(ctx, session.ID, session.Data, ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.log.Info("login", zap.Uint("account_id", account.ID), zap.String("role", in.Role))
	return session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}

func (s *authService) Authenticate(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	if sessionID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	data, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	// The account may have been deleted or demoted since login.
	account, err := s.store.Accounts().GetByID(ctx, data.AccountID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if err != nil || account.IsDeleted {
		if derr := s.sessions.DeleteSession(ctx, sessionID); derr != nil {
			s.log.Warn("failed to drop stale session", zap.Uint("account_id", data.AccountID), zap.Error(derr))
		}
		return nil, apperrors.ErrUnauthorized
	}
	data.Username = account.Username
	data.Role = string(account.RoleLabel())
	data.IsSuperuser = account.IsSuperuser
	return data, nil
}
