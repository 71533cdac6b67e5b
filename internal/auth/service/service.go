// Package service implements authentication and user administration.
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"leadportal_backend/internal/auth/password"
	"leadportal_backend/internal/auth/repository"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/httpkit"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/phone"
)

// UserRepository is the persistence surface the service needs.
type UserRepository interface {
	CreateUser(ctx context.Context, name, email, phoneNumber, role, passwordHash string) (repository.User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (repository.User, error)
	GetUserByID(ctx context.Context, userID int64) (repository.User, error)
	UpdateFCMToken(ctx context.Context, userID int64, fcmToken string) error
	ListUsers(ctx context.Context) ([]repository.User, error)
}

type Service struct {
	repo UserRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo UserRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// User is the outward-facing account representation (no credential material).
type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
	FCMToken *string `json:"fcm_token,omitempty"`
}

func toUser(u repository.User) User {
	return User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		FCMToken: u.FCMToken,
	}
}

// Login verifies phone + password and issues an access token.
func (s *Service) Login(ctx context.Context, phoneNumber, plainPassword string) (string, User, error) {
	const op = "auth.Login"

	normalized := phone.NormalizeE164(phoneNumber)
	user, err := s.repo.GetUserByPhone(ctx, normalized)
	if errors.Is(err, repository.ErrNotFound) && normalized != phoneNumber {
		// Accounts created before phone normalization keep their raw format.
		user, err = s.repo.GetUserByPhone(ctx, phoneNumber)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", phoneNumber, false, "unknown phone")
			return "", User{}, apperr.Unauthorized("invalid credentials")
		}
		return "", User{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", phoneNumber, false, "wrong password")
		return "", User{}, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.issueAccessToken(user)
	if err != nil {
		return "", User{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	s.log.AuthEvent("login", user.Phone, true, "")
	return token, toUser(user), nil
}

func (s *Service) issueAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"name": user.Name,
		"role": user.Role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

// VerifyToken reports whether a raw token is a currently valid access token.
func (s *Service) VerifyToken(raw string) bool {
	_, err := httpkit.ParseAccessClaims(raw, s.cfg)
	return err == nil
}

// CreateUser registers a new account. Admin only, enforced at the route level.
func (s *Service) CreateUser(ctx context.Context, name, email, phoneNumber, role, plainPassword string) (User, error) {
	const op = "auth.CreateUser"

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return User{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	normalized := phone.NormalizeE164(phoneNumber)
	user, err := s.repo.CreateUser(ctx, name, email, normalized, role, hash)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRole) {
			return User{}, apperr.Validation("role must be admin or user")
		}
		return User{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	return toUser(user), nil
}

// RegisterFCMToken stores the caller's push-delivery address.
func (s *Service) RegisterFCMToken(ctx context.Context, userID int64, fcmToken string) error {
	const op = "auth.RegisterFCMToken"

	if err := s.repo.UpdateFCMToken(ctx, userID, fcmToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user")
		}
		return apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	return nil
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	const op = "auth.ListUsers"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	return out, nil
}
