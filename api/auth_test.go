package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xxsannx/pineus-tilu-booking/internal/domain"
	"github.com/xxsannx/pineus-tilu-booking/internal/service/auth"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, input auth.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAuthUseCase) Logout(token string) {
	m.Called(token)
}

func newAuthRouter(service auth.AuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAuthHandler(service).Register(router.Group("/api"))
	return router
}

func TestAuthHandler_Register(t *testing.T) {
	service := &MockAuthUseCase{}
	router := newAuthRouter(service)

	service.On("Register", mock.Anything, auth.RegisterInput{
		Name:     "Asep",
		Email:    "a@x.com",
		Phone:    "0812000111",
		Password: "p1",
	}).Return(&domain.User{ID: "user-1", Email: "a@x.com"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"name":"Asep","email":"a@x.com","phone":"0812000111","password":"p1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp successResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	service := &MockAuthUseCase{}
	router := newAuthRouter(service)

	service.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateEmail)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"name":"Asep","email":"a@x.com","phone":"0812000111","password":"p1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, domain.ErrDuplicateEmail.Error(), resp.Error)
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	service := &MockAuthUseCase{}
	router := newAuthRouter(service)

	service.On("Login", mock.Anything, "a@x.com", "p1").
		Return("token-123", &domain.User{ID: "user-1"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"a@x.com","password":"p1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, "token-123", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	service := &MockAuthUseCase{}
	router := newAuthRouter(service)

	service.On("Login", mock.Anything, "a@x.com", "wrong").
		Return("", nil, domain.ErrBadCredentials)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"a@x.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandler_Logout(t *testing.T) {
	service := &MockAuthUseCase{}
	router := newAuthRouter(service)

	service.On("Logout", "token-123").Return()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "token-123"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertCalled(t, "Logout", "token-123")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
