package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_platform/internal/events"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/repo"
	"github.com/Skotchmaster/blog_platform/pkg/cookies"
	"github.com/Skotchmaster/blog_platform/pkg/hash"
	"github.com/Skotchmaster/blog_platform/pkg/logging"
	"github.com/Skotchmaster/blog_platform/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	Events        *events.Producer
	JWTSecret     []byte
	RefreshSecret []byte
}

type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// issueSession mints both credentials and overwrites the account's stored
// refresh fingerprint, invalidating whatever session existed before.
func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessExp := time.Now().Add(tokens.AccessTokenTTL)
	accessToken, err := tokens.NewAccessToken(user.ID.String(), string(user.Role), s.JWTSecret, accessExp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := time.Now().Add(tokens.RefreshTokenTTL)
	refreshToken, err := tokens.NewRefreshToken(user.ID.String(), s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	fp := cookies.Fingerprint(refreshToken)
	if err := s.Repo.SetRefreshToken(ctx, user.ID, &fp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		AccessExp:    accessExp,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleReader,
	}
	created, err := s.Repo.CreateUser(ctx, &user)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, nil, err
	}
	if !created {
		l.Warn("register_failed", "status", 409, "reason", "email already exists")
		return nil, nil, fmt.Errorf("%w: email already exists", ErrConflict)
	}

	pair, err := s.issueSession(ctx, &user)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, nil, err
	}

	if err := s.Events.Publish(ctx, "user_registered", user.ID.String(), map[string]any{
		"user_id": user.ID.String(),
		"email":   user.Email,
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	l.Info("register_successful", "user_id", user.ID.String())
	return &user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID.String())
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, nil, err
	}

	if err := s.Events.Publish(ctx, "user_logged_in", user.ID.String(), map[string]any{
		"user_id": user.ID.String(),
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	l.Info("login_successful", "user_id", user.ID.String())
	return user, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", userID.String())

	if err := s.Repo.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return err
	}

	l.Info("logout_successful")
	return nil
}

// RenewAccess validates a presented refresh credential against both its
// signature and the account's stored fingerprint, then mints a fresh access
// token bound to the account's current role. The refresh credential itself is
// not rotated; only login, register and logout change it.
func (s *AuthService) RenewAccess(ctx context.Context, refreshToken string) (*models.User, string, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "auth.renew")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("renew_failed", "status", 401, "error", err)
		return nil, "", time.Time{}, ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		l.Warn("renew_failed", "status", 401, "reason", "malformed subject")
		return nil, "", time.Time{}, ErrUnauthenticated
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("renew_failed", "status", 401, "reason", "unknown subject")
			return nil, "", time.Time{}, ErrUnauthenticated
		}
		l.Error("renew_failed", "status", 500, "error", err)
		return nil, "", time.Time{}, err
	}

	// Detects sessions revoked by logout or displaced by a newer login.
	fp := cookies.Fingerprint(refreshToken)
	if user.RefreshToken == nil || *user.RefreshToken != fp {
		l.Warn("renew_failed", "status", 401, "reason", "refresh token mismatch", "user_id", user.ID.String())
		return nil, "", time.Time{}, ErrUnauthenticated
	}

	accessExp := time.Now().Add(tokens.AccessTokenTTL)
	accessToken, err := tokens.NewAccessToken(user.ID.String(), string(user.Role), s.JWTSecret, accessExp)
	if err != nil {
		l.Error("renew_failed", "status", 500, "error", err)
		return nil, "", time.Time{}, err
	}

	return user, accessToken, accessExp, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
