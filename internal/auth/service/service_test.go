package service

import (
	"context"
	"testing"
	"time"

	"leadportal_backend/internal/auth/password"
	"leadportal_backend/internal/auth/repository"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/logger"
)

type fakeUserRepo struct {
	usersByPhone map[string]repository.User
	fcmUpdates   map[int64]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByPhone: make(map[string]repository.User),
		fcmUpdates:   make(map[int64]string),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, name, email, phoneNumber, role, passwordHash string) (repository.User, error) {
	if role != repository.RoleAdmin && role != repository.RoleUser {
		return repository.User{}, repository.ErrInvalidRole
	}
	user := repository.User{
		ID:           int64(len(f.usersByPhone) + 1),
		Name:         name,
		Phone:        phoneNumber,
		Role:         role,
		PasswordHash: passwordHash,
	}
	if email != "" {
		user.Email = &email
	}
	f.usersByPhone[phoneNumber] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByPhone(_ context.Context, phoneNumber string) (repository.User, error) {
	user, ok := f.usersByPhone[phoneNumber]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID int64) (repository.User, error) {
	for _, user := range f.usersByPhone {
		if user.ID == userID {
			return user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateFCMToken(_ context.Context, userID int64, fcmToken string) error {
	for _, user := range f.usersByPhone {
		if user.ID == userID {
			f.fcmUpdates[userID] = fcmToken
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]repository.User, error) {
	var users []repository.User
	for _, user := range f.usersByPhone {
		users = append(users, user)
	}
	return users, nil
}

type fakeJWTConfig struct{}

func (fakeJWTConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (fakeJWTConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return New(repo, fakeJWTConfig{}, logger.New("test")), repo
}

func seedUser(t *testing.T, repo *fakeUserRepo, phoneNumber, plain string) repository.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := repo.CreateUser(context.Background(), "Asha", "", phoneNumber, repository.RoleUser, hash)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "+919876543210", "s3cret")

	token, user, err := svc.Login(context.Background(), "+919876543210", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if user.Role != repository.RoleUser {
		t.Fatalf("role = %q, want user", user.Role)
	}
	if !svc.VerifyToken(token) {
		t.Fatal("freshly issued token should verify")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "+919876543210", "s3cret")

	_, _, err := svc.Login(context.Background(), "+919876543210", "wrong")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownPhone(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "+911111111111", "whatever")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginFallsBackToRawPhone(t *testing.T) {
	svc, repo := newTestService(t)
	// Account stored before normalization was introduced.
	seedUser(t, repo, "09876543210", "s3cret")

	_, _, err := svc.Login(context.Background(), "09876543210", "s3cret")
	if err != nil {
		t.Fatalf("login with legacy phone format: %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	if svc.VerifyToken("not.a.token") {
		t.Fatal("garbage token should not verify")
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), "X", "", "+919876543210", "superuser", "pw")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
