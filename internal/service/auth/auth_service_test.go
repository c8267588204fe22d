package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xxsannx/pineus-tilu-booking/internal/domain"
	"github.com/xxsannx/pineus-tilu-booking/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	repo := &MockUserRepository{}
	svc := NewAuthService(repo, session.NewStore(), bcrypt.MinCost)

	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asep",
		Email:    "A@X.com",
		Phone:    "0812000111",
		Password: "p1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "p1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("p1")))
	repo.AssertExpectations(t)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewAuthService(&MockUserRepository{}, session.NewStore(), bcrypt.MinCost)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:  "Asep",
		Email: "a@x.com",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &MockUserRepository{}
	svc := NewAuthService(repo, session.NewStore(), bcrypt.MinCost)

	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{ID: "existing"}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asep",
		Email:    "a@x.com",
		Phone:    "0812000111",
		Password: "p1",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	repo := &MockUserRepository{}
	sessions := session.NewStore()
	svc := NewAuthService(repo, sessions, bcrypt.MinCost)

	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		ID:           "user-1",
		Email:        "a@x.com",
		PasswordHash: hashOf(t, "p1"),
	}, nil)

	token, user, err := svc.Login(context.Background(), "a@x.com", "p1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	resolved, ok := sessions.Resolve(token)
	assert.True(t, ok)
	assert.Equal(t, "user-1", resolved)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &MockUserRepository{}
	svc := NewAuthService(repo, session.NewStore(), bcrypt.MinCost)

	repo.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, domain.ErrUserNotFound)

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "p1")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &MockUserRepository{}
	svc := NewAuthService(repo, session.NewStore(), bcrypt.MinCost)

	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		ID:           "user-1",
		Email:        "a@x.com",
		PasswordHash: hashOf(t, "p1"),
	}, nil)

	_, _, err := svc.Login(context.Background(), "a@x.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestLogout_DestroysSession(t *testing.T) {
	repo := &MockUserRepository{}
	sessions := session.NewStore()
	svc := NewAuthService(repo, sessions, bcrypt.MinCost)

	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		ID:           "user-1",
		Email:        "a@x.com",
		PasswordHash: hashOf(t, "p1"),
	}, nil)

	token, _, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	svc.Logout(token)

	_, ok := sessions.Resolve(token)
	assert.False(t, ok)

	// logging out twice is harmless
	svc.Logout(token)
}
