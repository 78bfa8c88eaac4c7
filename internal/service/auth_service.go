package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"deepdelve/campaignhub/internal/model"
	"deepdelve/campaignhub/internal/repository"
	"deepdelve/campaignhub/pkg/crypto"
	jwtpkg "deepdelve/campaignhub/pkg/jwt"
)

const (
	defaultAccountType = "standard"
	defaultUsername    = "adventurer"
	maxUsernameLen     = 24

	revokedRefreshPrefix = "revoked_refresh:"
)

// TokenSet represents a set of tokens returned after authentication.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, username, accountType string) (*model.Profile, *TokenSet, error)
	Login(ctx context.Context, email, password string) (*TokenSet, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	stateStore  repository.StateStore
	jwtManager  *jwtpkg.Manager
}

func NewAuthService(
	profileRepo repository.ProfileRepository,
	stateStore repository.StateStore,
	jwtManager *jwtpkg.Manager,
) AuthService {
	return &authService{
		profileRepo: profileRepo,
		stateStore:  stateStore,
		jwtManager:  jwtManager,
	}
}

// Register provisions a profile with a derived unique username and returns
// a fresh token pair so sign-up doubles as sign-in.
func (s *authService) Register(ctx context.Context, email, password, username, accountType string) (*model.Profile, *TokenSet, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	derived, err := s.deriveUsername(ctx, username, email)
	if err != nil {
		return nil, nil, err
	}

	accountType = strings.TrimSpace(accountType)
	if accountType == "" {
		accountType = defaultAccountType
	}

	profile := &model.Profile{
		Email:        email,
		PasswordHash: hash,
		Username:     derived,
		AccountType:  accountType,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create profile: %w", err)
	}

	tokens, err := s.issueTokens(profile.UserID)
	if err != nil {
		return nil, nil, err
	}
	return profile, tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenSet, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !crypto.CheckPassword(password, profile.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(profile.UserID)
}

// RefreshToken rotates the refresh token: the presented token's JTI is
// denylisted for its remaining lifetime and a fresh pair is issued.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}

	if err := s.denylistRefresh(ctx, claims); err != nil {
		return nil, err
	}
	return s.issueTokens(userID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.denylistRefresh(ctx, claims)
}

func (s *authService) CurrentProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

func (s *authService) issueTokens(userID uuid.UUID) (*TokenSet, error) {
	access, err := s.jwtManager.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, _, err := s.jwtManager.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *authService) validateRefresh(ctx context.Context, refreshToken string) (*jwtpkg.Claims, error) {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return nil, ErrRefreshTokenInvalid
	}
	revoked, err := s.stateStore.Exists(ctx, revokedRefreshPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check refresh denylist: %w", err)
	}
	if revoked {
		return nil, ErrRefreshTokenInvalid
	}
	return claims, nil
}

func (s *authService) denylistRefresh(ctx context.Context, claims *jwtpkg.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.stateStore.Set(ctx, revokedRefreshPrefix+claims.ID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("denylist refresh token: %w", err)
	}
	return nil
}

// deriveUsername sanitizes the requested username, falls back to the email
// local part, and appends a random suffix until the result is unique.
func (s *authService) deriveUsername(ctx context.Context, requested, email string) (string, error) {
	base := sanitizeUsername(requested)
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = sanitizeUsername(local)
	}
	if base == "" {
		base = defaultUsername
	}

	taken, err := s.profileRepo.UsernameTaken(ctx, base)
	if err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if !taken {
		return base, nil
	}

	for attempt := 0; attempt < 5; attempt++ {
		suffix, err := crypto.GenerateUsernameSuffix()
		if err != nil {
			return "", fmt.Errorf("generate username suffix: %w", err)
		}
		candidate := base + "-" + suffix
		taken, err := s.profileRepo.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.New("could not derive a unique username")
}

func sanitizeUsername(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxUsernameLen {
		out = out[:maxUsernameLen]
	}
	return out
}

var _ AuthService = (*authService)(nil)
