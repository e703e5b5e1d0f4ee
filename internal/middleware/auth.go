package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/credentials"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/repository"
)

const userKey = "user"

type tokenResolver interface {
	Resolve(token string) (*credentials.Claims, error)
}

// Gate authenticates bearer tokens and authorizes admin routes.
type Gate struct {
	tokens tokenResolver
	users  repository.UserRepository
}

func NewGate(tokens tokenResolver, users repository.UserRepository) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate resolves an Authorization header value to the stored user.
func (g *Gate) Authenticate(ctx context.Context, header string) (*models.User, error) {
	if header == "" {
		return nil, apperrors.Unauthenticated("Authorization header missing")
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, apperrors.Unauthenticated("Authorization header must be in the form 'Bearer <token>'")
	}

	claims, err := g.tokens.Resolve(strings.TrimSpace(token))
	switch {
	case errors.Is(err, credentials.ErrExpiredToken):
		return nil, apperrors.Unauthenticated("Token has expired")
	case err != nil:
		return nil, apperrors.Unauthenticated("Could not validate credentials")
	}

	user, err := g.users.FindByEmail(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthenticated("User no longer exists")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// RequireAdmin checks the role as currently stored, not the token claim, so
// a demoted admin loses access on the next request.
func RequireAdmin(user *models.User) error {
	if !user.IsAdmin() {
		return apperrors.Forbidden("Admin access required")
	}
	return nil
}

// RequireUser aborts unauthenticated requests and stores the user on the
// gin context.
func (g *Gate) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := g.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireUser.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := RequireAdmin(CurrentUser(c)); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
