package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"task-manager.com/task-manager/internal/auth"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/validators"
)

const tokenName = "auth_token"

type IdentityService struct {
	users        *repository.UserRepository
	tokens       *repository.TokenRepository
	hasher       *auth.PasswordHasher
	tokenManager *auth.TokenManager
	logger       *slog.Logger
	now          func() time.Time
}

func NewIdentityService(
	users *repository.UserRepository,
	tokens *repository.TokenRepository,
	hasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		users:        users,
		tokens:       tokens,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the user and signs them in.
func (s *IdentityService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, string, error) {
	if err := s.validateRegistration(ctx, req); err != nil {
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

func (s *IdentityService) validateRegistration(ctx context.Context, req dto.RegisterRequest) error {
	verr := &apperrors.ValidationError{}
	if err := validators.Struct(req); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}

	if !verr.Has("password") && req.Password != req.PasswordConfirmation {
		verr.Add("password", "The password field confirmation does not match.")
	}

	if !verr.Has("email") {
		taken, err := s.users.EmailExists(ctx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("email", apperrors.EmailTakenMessage)
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// Login verifies the credentials and issues a fresh token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *IdentityService) Login(ctx context.Context, req dto.LoginRequest) (*model.User, string, error) {
	if err := validators.Struct(req); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes exactly the token identified by tokenID.
func (s *IdentityService) Logout(ctx context.Context, tokenID string) error {
	return s.tokens.Delete(ctx, tokenID)
}

// Authenticate resolves a bearer token to its user and token row.
func (s *IdentityService) Authenticate(ctx context.Context, bearer string) (*model.User, *model.AccessToken, error) {
	claims, err := s.tokenManager.Parse(bearer)
	if err != nil {
		return nil, nil, apperrors.ErrUnauthenticated
	}

	token, err := s.tokens.Find(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if token.UserID != claims.Subject || (token.ExpiresAt != nil && !now.Before(*token.ExpiresAt)) {
		return nil, nil, apperrors.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrUnauthenticated
		}
		return nil, nil, err
	}

	if err := s.tokens.Touch(ctx, token.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to touch access token", "token_id", token.ID, "error", err)
	}
	token.LastUsedAt = &now

	return user, token, nil
}

func (s *IdentityService) issueToken(ctx context.Context, user *model.User) (string, error) {
	now := s.now()
	tokenID := uuid.NewString()

	signed, expiresAt, err := s.tokenManager.Issue(tokenID, user.ID, now)
	if err != nil {
		return "", err
	}

	row := &model.AccessToken{
		ID:        tokenID,
		UserID:    user.ID,
		Name:      tokenName,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, row); err != nil {
		return "", err
	}
	return signed, nil
}
