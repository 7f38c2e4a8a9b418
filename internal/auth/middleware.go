package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskman/internal/cache"
	"taskman/internal/errors"
	"taskman/internal/model"
	"taskman/internal/repository"
)

// UserContextKey is the echo context key under which the authenticated user
// is stored.
const UserContextKey = "current_user"

const (
	userCacheTTL    = 5 * time.Minute
	bearerPrefix    = "Bearer "
	msgNoToken      = "Not authorized, no token"
	msgVerifyFailed = "Not authorized, token verification failed"
)

// Middleware gates routes that require an authenticated user.
type Middleware struct {
	jwt   *JWTService
	users repository.UserRepository
	cache *cache.Client
}

// NewMiddleware creates the auth guard.
func NewMiddleware(jwt *JWTService, users repository.UserRepository, cache *cache.Client) *Middleware {
	return &Middleware{
		jwt:   jwt,
		users: users,
		cache: cache,
	}
}

// Authenticate extracts and verifies the bearer token, loads the matching
// user and attaches it to the request context. The failure message only
// distinguishes "no token at all" from "token did not verify"; signature,
// expiry and unknown-user failures are deliberately indistinguishable.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Message: msgNoToken})
		}

		claims, err := m.jwt.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Message: msgVerifyFailed})
		}

		user, err := m.loadUser(c.Request().Context(), claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Message: msgVerifyFailed})
		}

		c.Set(UserContextKey, user)
		return next(c)
	}
}

// loadUser fetches the user behind a verified token, password hash stripped.
// Lookups are cached; users are immutable in this system so a stale entry
// cannot differ from the stored row.
func (m *Middleware) loadUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	key := fmt.Sprintf("user:%s", id)

	if data, _ := m.cache.Get(ctx, key); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := m.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	if payload, err := json.Marshal(user); err == nil {
		_ = m.cache.Set(ctx, key, payload, userCacheTTL)
	}

	return user, nil
}

// CurrentUser returns the authenticated user attached by Authenticate.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(UserContextKey).(*model.User)
	return user, ok && user != nil
}
