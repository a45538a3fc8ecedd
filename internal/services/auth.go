package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/auth"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/Kartik1014/Rentit/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username string      `json:"username" binding:"required,notblank,min=3,max=50"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8,max=72"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=TENANT OWNER"`
	Phone    string      `json:"phone" binding:"omitempty,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ResetRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

type AuthService struct {
	store    repository.Store
	tokens   *auth.TokenManager
	validate *validation.Validator
	resetTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewAuthService(store repository.Store, tokens *auth.TokenManager, v *validation.Validator, resetTTL time.Duration, now func() time.Time, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		validate: v,
		resetTTL: resetTTL,
		now:      now,
		logger:   logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (types.AuthResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.AuthResponse{}, err
	}

	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	role := in.Role
	if role == "" {
		role = models.RoleTenant
	}

	users := s.store.Users()

	if _, err := users.FindByEmail(ctx, email); err == nil {
		return types.AuthResponse{}, apperr.Conflict("Email is already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return types.AuthResponse{}, internal(err)
	}

	if _, err := users.FindByUsername(ctx, username); err == nil {
		return types.AuthResponse{}, apperr.Conflict("Username is already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return types.AuthResponse{}, internal(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return types.AuthResponse{}, internal(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(in.Phone),
	}

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return types.AuthResponse{}, apperr.Conflict("Email or username is already registered")
		}
		return types.AuthResponse{}, internal(err)
	}

	s.logger.Info("User registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (types.AuthResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.AuthResponse{}, err
	}

	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return types.AuthResponse{}, apperr.Unauthenticated("Invalid email or password")
		}
		return types.AuthResponse{}, internal(err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return types.AuthResponse{}, apperr.Unauthenticated("Invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

// Refresh accepts only the refresh token currently stored for the user, so
// each token can be exchanged once.
func (s *AuthService) Refresh(ctx context.Context, in RefreshInput) (types.AuthResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.AuthResponse{}, err
	}

	claims, err := s.tokens.VerifyRefreshToken(in.RefreshToken)
	if err != nil {
		return types.AuthResponse{}, apperr.Unauthenticated("Invalid or expired refresh token")
	}

	user, err := s.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return types.AuthResponse{}, apperr.Unauthenticated("Invalid or expired refresh token")
		}
		return types.AuthResponse{}, internal(err)
	}

	if user.RefreshToken == "" || user.RefreshToken != in.RefreshToken {
		return types.AuthResponse{}, apperr.Unauthenticated("Invalid or expired refresh token")
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (types.AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return types.AuthResponse{}, internal(err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return types.AuthResponse{}, internal(err)
	}

	user.RefreshToken = refresh
	if err := s.store.Users().Save(ctx, user); err != nil {
		return types.AuthResponse{}, internal(err)
	}

	return types.AuthResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         types.NewUserResponse(user),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, p policy.Principal) error {
	user, err := s.store.Users().FindByID(ctx, p.ID)
	if err != nil {
		return lookup(err, "User not found")
	}

	user.RefreshToken = ""
	if err := s.store.Users().Save(ctx, user); err != nil {
		return internal(err)
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, p policy.Principal) (types.UserResponse, error) {
	user, err := s.store.Users().FindByID(ctx, p.ID)
	if err != nil {
		return types.UserResponse{}, lookup(err, "User not found")
	}
	return types.NewUserResponse(user), nil
}

// RequestPasswordReset returns the reset token to the caller; there is no
// mail delivery.
func (s *AuthService) RequestPasswordReset(ctx context.Context, in ResetRequestInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", err
	}

	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return "", lookup(err, "No account found with this email")
	}

	token := uuid.NewString()
	expires := s.now().Add(s.resetTTL)
	user.ResetPasswordToken = &token
	user.ResetPasswordExpire = &expires

	if err := s.store.Users().Save(ctx, user); err != nil {
		return "", internal(err)
	}

	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}

	user, err := s.store.Users().FindByResetToken(ctx, in.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("Invalid or expired reset token")
		}
		return internal(err)
	}

	if user.ResetPasswordExpire == nil || s.now().After(*user.ResetPasswordExpire) {
		return apperr.Validation("Reset token has expired")
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return internal(err)
	}

	user.PasswordHash = hash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil

	if err := s.store.Users().Save(ctx, user); err != nil {
		return internal(err)
	}

	s.logger.Info("Password reset", zap.Uint("user_id", user.ID))
	return nil
}
