package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/auth"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/jwt"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/oauth"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/localcache"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/remote"
)

type AuthServiceImpl struct {
	store  remote.Store
	cache  *localcache.Store
	jwt    jwt.Service
	google oauth.GoogleService // nil when Google login is not configured
}

func NewAuthService(store remote.Store, cache *localcache.Store, jwtService jwt.Service, googleService oauth.GoogleService) auth.AuthService {
	return &AuthServiceImpl{
		store:  store,
		cache:  cache,
		jwt:    jwtService,
		google: googleService,
	}
}

// Signup implements auth.AuthService.
func (a *AuthServiceImpl) Signup(ctx context.Context, req auth.SignupRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	email := req.NormalizedEmail()
	exists, err := a.store.UserExists(ctx, email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to check email availability: %w", err)
	}
	if exists {
		return auth.TokenResponse{}, user.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := user.User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         user.Role(req.Role),
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.store.AddUser(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return auth.TokenResponse{}, user.ErrEmailExists
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return a.issueTokens(newUser)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	userData, err := a.store.FindUserByEmailAndPassword(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	return a.issueTokens(userData)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context) (string, string) {
	if a.google == nil {
		return "", ""
	}
	state := a.google.GenerateState()
	return a.google.AuthURL(state), state
}

// OAuthCallbackGoogle implements auth.AuthService. Only already-registered
// users can sign in with Google; there is no auto-provisioning.
func (a *AuthServiceImpl) OAuthCallbackGoogle(ctx context.Context, code string) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	token, err := a.google.Exchange(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}
	profile, err := a.google.FetchProfile(ctx, token)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	if !profile.VerifiedEmail {
		return auth.TokenResponse{}, auth.ErrEmailNotVerified
	}

	userData, err := a.store.FindUserByEmail(ctx, strings.ToLower(profile.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, user.ErrUserNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	return a.issueTokens(userData)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, accessToken string) error {
	if accessToken != "" {
		a.jwt.RevokeToken(accessToken)
	}
	return a.cache.ClearSession()
}

func (a *AuthServiceImpl) issueTokens(userData user.User) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.jwt.GenerateAccessToken(userData.ID, userData.Email, userData.Name, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.jwt.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	resp.User = userData.ToResponse()

	if err := a.cache.SetSession(localcache.Session{Type: string(userData.Role), UserID: userData.ID}); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to persist session: %w", err)
	}
	return resp, nil
}
