package auth

import (
	"context"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	LoginWithGoogle(ctx context.Context, code string) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
