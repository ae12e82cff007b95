package auth

import "context"

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context) (redirectURL string, state string)
	OAuthCallbackGoogle(ctx context.Context, code string) (TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
}
