package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// tokenService validates Supabase access tokens with HMAC signature
// verification against the project JWT secret.
type tokenService struct {
	config *config.Config
	logger *logger.Logger
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.Config, log *logger.Logger) TokenService {
	return &tokenService{
		config: cfg,
		logger: log,
	}
}

// ValidateAccessToken parses and verifies a Supabase JWT and returns its
// claims together with the user they describe.
func (s *tokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.AuthClaims, error) {
	if s.config.SupabaseJWTSecret == "" {
		s.logger.Error("SUPABASE_JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("JWT validation not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SupabaseJWTSecret), nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("JWT parse failed")
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}
	if !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	claims := &domain.AuthClaims{
		Sub:   stringClaim(mapClaims, "sub"),
		Email: stringClaim(mapClaims, "email"),
		Aud:   stringClaim(mapClaims, "aud"),
		Iss:   stringClaim(mapClaims, "iss"),
	}
	if v, ok := mapClaims["email_verified"].(bool); ok {
		claims.EmailVerified = v
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.Exp = int64(exp)
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.Iat = int64(iat)
	}

	if claims.Exp > 0 && time.Now().Unix() > claims.Exp {
		return nil, errors.NewAuthenticationError("Token has expired")
	}
	if claims.Sub == "" {
		return nil, errors.NewAuthenticationError("Token carries no user identifier")
	}

	s.logger.WithField("user_id", claims.Sub).Debug("Access token validated")
	return claims, nil
}

// UserFromClaims builds a minimal user from validated claims.
func UserFromClaims(claims *domain.AuthClaims) *domain.User {
	return &domain.User{
		ID:            claims.Sub,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
