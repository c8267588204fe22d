package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xxsannx/pineus-tilu-booking/internal/domain"
	"github.com/xxsannx/pineus-tilu-booking/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(token string)
}

// Sessions is the token store the service issues into. Satisfied by
// *session.Store.
type Sessions interface {
	Create(userID string) string
	Destroy(token string)
}

type AuthService struct {
	users    repository.UserRepository
	sessions Sessions
	hashCost int
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func NewAuthService(users repository.UserRepository, sessions Sessions, hashCost int) *AuthService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hashCost: hashCost,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Phone == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and opens a session, returning the new token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrBadCredentials
	}

	return s.sessions.Create(user.ID), user, nil
}

// Logout destroys the session; destroying an unknown token is a no-op.
func (s *AuthService) Logout(token string) {
	s.sessions.Destroy(token)
}

var _ AuthUseCase = (*AuthService)(nil)
