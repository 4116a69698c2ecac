package usecase

import (
	"context"
	"errors"

	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/pkg/jwt"
	"relief-ledger/internal/pkg/password"
	"relief-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenGeneration      = errors.New("token generation failed")
	ErrTokenValidation      = errors.New("token validation failed")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

type AuthUseCase interface {
	Login(ctx context.Context, credentials user.Credentials) (*TokenPair, *queries.UserView, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, *queries.UserView, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.UserView, error)
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type authUseCaseImpl struct {
	userRepo   UserRepository
	jwtService *jwt.Service
}

func NewAuthUseCase(userRepo UserRepository, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

func (a *authUseCaseImpl) Login(ctx context.Context, credentials user.Credentials) (*TokenPair, *queries.UserView, error) {
	view, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, nil, err
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, nil, ErrAuthenticationFailed
	}

	pair, err := a.issueTokens(view.ID, role)
	if err != nil {
		return nil, nil, err
	}

	if err := a.userRepo.UpdateLastLogin(ctx, view.ID); err != nil {
		return nil, nil, err
	}

	return pair, view, nil
}

func (a *authUseCaseImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *queries.UserView, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, nil, ErrTokenValidation
	}

	view, err := a.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || view == nil {
		return nil, nil, ErrUserNotFound
	}
	if !view.IsActive {
		return nil, nil, ErrUserInactive
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, nil, ErrAuthenticationFailed
	}

	pair, err := a.issueTokens(view.ID, role)
	if err != nil {
		return nil, nil, err
	}
	return pair, view, nil
}

func (a *authUseCaseImpl) validateUser(ctx context.Context, credentials user.Credentials) (*queries.UserView, error) {
	view, hashedPassword, err := a.userRepo.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		return nil, ErrUserNotFound
	}

	if view == nil {
		return nil, ErrUserNotFound
	}

	if !view.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	return view, nil
}

func (a *authUseCaseImpl) issueTokens(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	access, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, ErrTokenGeneration
	}
	refresh, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, ErrTokenGeneration
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (a *authUseCaseImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.UserView, error) {
	view, err := a.userRepo.FindByID(ctx, userID)
	if err != nil || view == nil {
		return nil, ErrUserNotFound
	}

	if !view.IsActive {
		return nil, ErrUserInactive
	}

	return view, nil
}

func (a *authUseCaseImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := a.jwtService.ValidateToken(tokenString)
	if err != nil || claims.TokenType != jwt.TokenTypeAccess {
		return uuid.Nil, "", ErrTokenValidation
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", ErrTokenValidation
	}

	return claims.UserID, role, nil
}
