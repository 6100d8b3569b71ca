package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-collection-api/internal/model"
	"go-collection-api/internal/permission"
	"go-collection-api/internal/repository"
	"go-collection-api/pkg/apierror"
)

// AuthService owns signup, credential checks and token issuance.
type AuthService struct {
	users       repository.UserStore
	hasher      *PasswordHasher
	tokens      *TokenService
	permissions *permission.Engine
	defaultRole string
	// dummyHash keeps the unknown-username path as slow as a wrong password.
	dummyHash string
}

func NewAuthService(users repository.UserStore, hasher *PasswordHasher, tokens *TokenService, permissions *permission.Engine) (*AuthService, error) {
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		permissions: permissions,
		defaultRole: model.RoleUser,
		dummyHash:   dummyHash,
	}, nil
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	role := strings.ToLower(strings.TrimSpace(req.Role))

	if username == "" || req.Password == "" {
		return model.AuthResponse{}, apierror.BadRequest("username and password are required", "")
	}
	if role == "" {
		role = s.defaultRole
	}
	if !s.permissions.HasRole(role) {
		return model.AuthResponse{}, apierror.BadRequest("invalid role", role)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, model.ErrUsernameTaken) {
		return model.AuthResponse{}, apierror.Conflict("username already exists", username)
	}
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("signup: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return s.IssueToken(user.Identity())
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (model.Identity, error) {
	invalid := apierror.Unauthorized("invalid credentials")

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return model.Identity{}, invalid
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.Identity{}, invalid
	}

	return user.Identity(), nil
}

func (s *AuthService) IssueToken(identity model.Identity) (model.AuthResponse, error) {
	token, _, err := s.tokens.Issue(identity)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Token: token,
		User: model.AuthUser{
			ID:           identity.UserID,
			Username:     identity.Username,
			Role:         identity.Role,
			Capabilities: s.permissions.Capabilities(identity.Role),
		},
	}, nil
}

func (s *AuthService) ValidateToken(token string) (model.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.Identity{}, err
	}
	return claims.Identity, nil
}

func (s *AuthService) ListUsernames(ctx context.Context) ([]string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	names := make([]string, 0, len(users))
	for _, user := range users {
		names = append(names, user.Username)
	}
	return names, nil
}
