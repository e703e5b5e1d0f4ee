package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/credentials"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/repository"
)

type RegisterInput struct {
	Name     string      `json:"name" binding:"required,min=2,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6,max=72"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

type AuthService struct {
	users            repository.UserRepository
	hasher           *credentials.PasswordHasher
	tokens           *credentials.TokenService
	allowAdminSignup bool
	log              *zap.Logger
}

func NewAuthService(users repository.UserRepository, hasher *credentials.PasswordHasher, tokens *credentials.TokenService, allowAdminSignup bool, log *zap.Logger) *AuthService {
	return &AuthService{
		users:            users,
		hasher:           hasher,
		tokens:           tokens,
		allowAdminSignup: allowAdminSignup,
		log:              log,
	}
}

// Register creates a user and signs them in. Self-service admin accounts
// are refused unless explicitly enabled.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if input.Role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, apperrors.Forbidden("Admin registration is disabled")
	}

	user, err := s.createUser(ctx, input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.signIn(user)
}

// CreateAdmin provisions an admin account outside the public signup flow.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	input := RegisterInput{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password, Role: models.RoleAdmin}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, input.Name, input.Email, input.Password, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthenticated("Incorrect email or password")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperrors.Unauthenticated("Incorrect email or password")
	}
	return s.signIn(user)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *AuthService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.Email, user.IsAdmin())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AuthResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}
