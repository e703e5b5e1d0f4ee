package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/credentials"
	"roboturkiye-backend/internal/models"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	reg, err := env.auth.Register(env.ctx, RegisterInput{Name: "Ayşe", Email: "ayse@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", reg.TokenType)
	assert.Equal(t, models.RoleUser, reg.User.Role)
	assert.NotEqual(t, "secret1", reg.User.PasswordHash)

	claims, err := env.tokens.Resolve(reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ayse@example.com", claims.Subject)
	assert.False(t, claims.IsAdmin)

	login, err := env.auth.Login(env.ctx, LoginInput{Email: "ayse@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	profile, err := env.auth.Profile(env.ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", profile.Name)
}

func TestAuthService_DuplicateEmailIsConflict(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(env.ctx, RegisterInput{Name: "First", Email: "dup@example.com", Password: "secret1"})
	require.NoError(t, err)

	for _, password := range []string{"secret1", "another-password"} {
		_, err := env.auth.Register(env.ctx, RegisterInput{Name: "Second", Email: "dup@example.com", Password: password})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		assert.Equal(t, "Email already registered", apperrors.From(err).Message)
	}
}

func TestAuthService_EmailIsTrimmedOnLogin(t *testing.T) {
	env := newTestEnv(t)
	reg, err := env.auth.Register(env.ctx, RegisterInput{Name: "Ayşe", Email: "  ayse@example.com\t", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ayse@example.com", reg.User.Email)

	for _, email := range []string{"  ayse@example.com\t", "ayse@example.com", " ayse@example.com"} {
		login, err := env.auth.Login(env.ctx, LoginInput{Email: email, Password: "secret1"})
		require.NoError(t, err, "%q", email)
		assert.Equal(t, reg.User.ID, login.User.ID)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(env.ctx, RegisterInput{Name: "Ayşe", Email: "ayse@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = env.auth.Login(env.ctx, LoginInput{Email: "ayse@example.com", Password: "wrong-password"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))

	_, err = env.auth.Login(env.ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))
}

func TestAuthService_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(env.ctx, RegisterInput{Name: "A", Email: "not-an-email", Password: "123"})
	require.Error(t, err)
	appErr := apperrors.From(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, "min=2", appErr.Fields["name"])
	assert.Equal(t, "email", appErr.Fields["email"])
	assert.Equal(t, "min=6", appErr.Fields["password"])

	_, err = env.auth.Register(env.ctx, RegisterInput{Name: "Ayşe", Email: "a@example.com", Password: "secret1", Role: "root"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestAuthService_AdminSignup(t *testing.T) {
	env := newTestEnv(t)
	input := RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "secret1", Role: models.RoleAdmin}

	_, err := env.auth.Register(env.ctx, input)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	open := NewAuthService(env.store.Users, credentials.NewPasswordHasher(bcrypt.MinCost), env.tokens, true, zap.NewNop())
	res, err := open.Register(env.ctx, input)
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin())

	claims, err := env.tokens.Resolve(res.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	env := newTestEnv(t)

	admin, err := env.auth.CreateAdmin(env.ctx, "Site Admin", "root@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = env.auth.CreateAdmin(env.ctx, "Site Admin", "root@example.com", "secret1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestAuthService_ProfileMissingUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Profile(env.ctx, "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Equal(t, "User not found", apperrors.From(err).Message)
}
