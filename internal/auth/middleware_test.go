package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskman/internal/errors"
	"taskman/internal/model"
)

// mockUserRepository is a mock implementation of repository.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func invokeGuard(t *testing.T, mw *Middleware, authHeader string) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	err := mw.Authenticate(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, nextCalled, err
}

func assertUnauthorized(t *testing.T, err error, message string) {
	t.Helper()

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, errors.ErrorResponse{Message: message}, httpErr.Message)
}

func TestMiddleware_Authenticate_NoToken(t *testing.T) {
	mw := NewMiddleware(NewJWTService("test-secret"), new(mockUserRepository), nil)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer scheme", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, nextCalled, err := invokeGuard(t, mw, tt.header)
			assert.False(t, nextCalled)
			assertUnauthorized(t, err, "Not authorized, no token")
		})
	}
}

func TestMiddleware_Authenticate_BadToken(t *testing.T) {
	mw := NewMiddleware(NewJWTService("test-secret"), new(mockUserRepository), nil)

	otherSecret, err := NewJWTService("other-secret").Issue(uuid.New())
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage token", token: "garbage"},
		{name: "wrong signing secret", token: otherSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, nextCalled, err := invokeGuard(t, mw, "Bearer "+tt.token)
			assert.False(t, nextCalled)
			assertUnauthorized(t, err, "Not authorized, token verification failed")
		})
	}
}

func TestMiddleware_Authenticate_UnknownUser(t *testing.T) {
	jwtSvc := NewJWTService("test-secret")
	userID := uuid.New()
	token, err := jwtSvc.Issue(userID)
	assert.NoError(t, err)

	repo := new(mockUserRepository)
	repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	mw := NewMiddleware(jwtSvc, repo, nil)
	_, nextCalled, err := invokeGuard(t, mw, "Bearer "+token)
	assert.False(t, nextCalled)
	assertUnauthorized(t, err, "Not authorized, token verification failed")
	repo.AssertExpectations(t)
}

func TestMiddleware_Authenticate_AttachesUser(t *testing.T) {
	jwtSvc := NewJWTService("test-secret")
	userID := uuid.New()
	token, err := jwtSvc.Issue(userID)
	assert.NoError(t, err)

	repo := new(mockUserRepository)
	repo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:           userID,
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "$2a$10$hash",
	}, nil)

	mw := NewMiddleware(jwtSvc, repo, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerErr := mw.Authenticate(func(c echo.Context) error {
		user, ok := CurrentUser(c)
		assert.True(t, ok)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "test@example.com", user.Email)
		assert.Empty(t, user.PasswordHash)
		return c.NoContent(http.StatusOK)
	})(c)

	assert.NoError(t, handlerErr)
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
