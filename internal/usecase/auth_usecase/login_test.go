package auth_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	auth "app/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// =====================
// Mock: PermissionRepository
// =====================

type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) ResolveForUser(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]string)
	return p, args.Error(1)
}

// =====================
// Stub: issuer / clock
// =====================

type stubIssuer struct {
	gotPerms []string
}

func (s *stubIssuer) Issue(userID int64, name string, permissions []string, now time.Time) (string, time.Time, error) {
	s.gotPerms = permissions
	return "token-abc", now.Add(8 * time.Hour), nil
}

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

// =====================
// Helper
// =====================

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return string(b)
}

func activeUser(t *testing.T, password string) *model.User {
	t.Helper()
	return &model.User{
		ID:           1,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: mustHash(t, password),
		IsActive:     true,
	}
}

// =====================
// Tests
// =====================

func TestLoginUsecase_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	issuer := &stubIssuer{}
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	uc := auth.NewLoginUsecase(userRepo, permRepo, auth.NewBcryptPasswordVerifier(), issuer, stubClock{now: now})

	user := activeUser(t, "secret123")
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	permRepo.On("ResolveForUser", mock.Anything, int64(1)).
		Return([]string{model.PermSalesCreate, model.PermSalesRead}, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		//最終ログイン時刻が更新される
		return u.ID == 1 && u.LastLoginAt != nil && u.LastLoginAt.Equal(now)
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token-abc", out.Token)
	assert.Equal(t, now.Add(8*time.Hour), out.ExpiresAt)
	assert.Equal(t, int64(1), out.UserID)
	//解決済み権限がclaimsにもレスポンスにも入る
	assert.Equal(t, []string{model.PermSalesCreate, model.PermSalesRead}, out.Permissions)
	assert.Equal(t, []string{model.PermSalesCreate, model.PermSalesRead}, issuer.gotPerms)
	userRepo.AssertExpectations(t)
	permRepo.AssertExpectations(t)
}

func TestLoginUsecase_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	uc := auth.NewLoginUsecase(userRepo, permRepo, auth.NewBcryptPasswordVerifier(), &stubIssuer{}, stubClock{now: time.Now()})

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(activeUser(t, "secret123"), nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	//権限解決もトークン発行もしない
	permRepo.AssertNotCalled(t, "ResolveForUser", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLoginUsecase_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	uc := auth.NewLoginUsecase(userRepo, permRepo, auth.NewBcryptPasswordVerifier(), &stubIssuer{}, stubClock{now: time.Now()})

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound)

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	//存在しないemailも資格情報エラーとして返す（ユーザー列挙を防ぐ）
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUsecase_InactiveUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	uc := auth.NewLoginUsecase(userRepo, permRepo, auth.NewBcryptPasswordVerifier(), &stubIssuer{}, stubClock{now: time.Now()})

	user := activeUser(t, "secret123")
	user.IsActive = false
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, auth.ErrUserInactive)
}
