package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var errInvalidCredentials = fmt.Errorf("invalid email or password: %w", api.ErrUnauthenticated)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, error)
	Login(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
	now    func() time.Time
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	jwtCfg := cfg.JWT
	if jwtCfg.AccessTokenTTL <= 0 {
		jwtCfg.AccessTokenTTL = defaultAccessTokenTTL
	}
	if jwtCfg.RefreshTokenTTL <= 0 {
		jwtCfg.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
		now:    time.Now,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(req.Username), normalizeEmail(req.Email), string(hashed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create user failed")
		return nil, err
	}
	s.logger.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		span.RecordError(err)
		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Login with wrong password", slog.String("userID", user.ID.String()))
		return nil, errInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshSession rotates a refresh token. Presenting a token that was
// already revoked revokes every token of its owner.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("invalid refresh token: %w", api.ErrUnauthenticated)
		}
		span.RecordError(err)
		return nil, err
	}

	if stored.RevokedAt != nil {
		s.logger.WarnContext(ctx, "Revoked refresh token reused", slog.String("userID", stored.UserID.String()))
		if err = s.repo.InvalidateAllUserRefreshTokens(ctx, stored.UserID); err != nil {
			s.logger.ErrorContext(ctx, "Failed to revoke user sessions", slog.Any("error", err))
		}
		return nil, fmt.Errorf("refresh token revoked: %w", api.ErrUnauthenticated)
	}
	if !s.now().Before(stored.ExpiresAt) {
		return nil, fmt.Errorf("refresh token expired: %w", api.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("refresh token owner gone: %w", api.ErrUnauthenticated)
		}
		span.RecordError(err)
		return nil, err
	}

	if err = s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token. Unknown tokens are not an error.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *types.UserAuth) (*types.TokenResponse, error) {
	now := s.now()
	accessToken, err := GenerateAccessToken(user, s.jwtCfg, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err = s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, now.Add(s.jwtCfg.RefreshTokenTTL)); err != nil {
		return nil, err
	}

	return &types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// GenerateAccessToken signs an HS256 access token for user.
func GenerateAccessToken(user *types.UserAuth, jwtCfg config.JWTConfig, now time.Time) (string, error) {
	claims := types.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtCfg.AccessTokenTTL)),
		},
	}
	if jwtCfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{jwtCfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtCfg.SecretKey))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
