package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/edgehq/edge-backend-go/internal/domain/auth"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/pkg/jwt"
	"github.com/edgehq/edge-backend-go/internal/pkg/oauth"
)

type AuthService struct {
	employeeRepo  employee.Repository
	jwtService    jwt.Service
	googleService oauth.GoogleService
}

func NewAuthService(
	employeeRepo employee.Repository,
	jwtService jwt.Service,
	googleService oauth.GoogleService,
) *AuthService {
	return &AuthService{
		employeeRepo:  employeeRepo,
		jwtService:    jwtService,
		googleService: googleService,
	}
}

func (s *AuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	emp, err := s.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			// Burn a hash comparison so lookups for unknown emails take as
			// long as failed password checks.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(req.Password))
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if emp.PasswordHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(emp)
}

// LoginWithGoogle signs in an existing employee via Google OAuth2. Accounts
// are provisioned by admins, never auto-created on first OAuth login.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (auth.LoginResponse, error) {
	token, err := s.googleService.Exchange(ctx, code)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	info, err := s.googleService.UserInfo(ctx, token)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	if !info.VerifiedEmail {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	emp, err := s.employeeRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrOAuthEmailUnknown
		}
		return auth.LoginResponse{}, err
	}

	return s.issueTokens(emp)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, auth.ErrRefreshTokenRevoked
	}

	employeeID, err := s.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidToken
		}
		return auth.LoginResponse{}, err
	}

	// Rotate: the old refresh token dies with this exchange.
	s.jwtService.RevokeToken(refreshToken)

	return s.issueTokens(emp)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		s.jwtService.RevokeToken(refreshToken)
	}
	return nil
}

func (s *AuthService) issueTokens(emp employee.Employee) (auth.LoginResponse, error) {
	if !emp.IsActive {
		return auth.LoginResponse{}, auth.ErrAccountInactive
	}

	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(emp.ID)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken:      accessToken,
		ExpiresAt:        accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
		Employee:         employee.ToResponse(emp),
	}, nil
}
