package service

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/redis"
	"Booklet/internal/pkg/security"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

type TokenService interface {
	// ValidateAccessToken 校验访问令牌并检查是否已注销
	ValidateAccessToken(ctx context.Context, token string) (uint64, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenDTO, error)
	// Revoke 注销令牌直到其自然过期
	Revoke(ctx context.Context, token string) error
}

type tokenServiceImpl struct {
	issuer     *security.TokenIssuer
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(issuer *security.TokenIssuer, accessTTL, refreshTTL time.Duration) TokenService {
	return &tokenServiceImpl{
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *tokenServiceImpl) ValidateAccessToken(ctx context.Context, token string) (uint64, error) {
	return s.validate(ctx, token, consts.TokenTypeAccess)
}

func (s *tokenServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenDTO, error) {
	userID, err := s.validate(ctx, refreshToken, consts.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	access, err := s.issuer.GenerateToken(userID, consts.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *tokenServiceImpl) Revoke(ctx context.Context, token string) error {
	claims, err := s.issuer.ValidateToken(token, consts.TokenTypeAccess)
	if err != nil {
		return ErrTokenInvalid
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrTokenInvalid
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err = redis.SetWithExpiration(ctx, consts.TokenRevokedKey+signature, claims.UserID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *tokenServiceImpl) validate(ctx context.Context, token, tokenType string) (uint64, error) {
	if token == "" {
		return 0, ErrTokenMissing
	}
	claims, err := s.issuer.ValidateToken(token, tokenType)
	if err != nil {
		log.DebugContext(ctx, "token rejected", "token_type", tokenType, "err", err)
		return 0, ErrTokenInvalid
	}

	signature, err := security.ExtractSignature(token)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	revoked, err := redis.Exists(ctx, consts.TokenRevokedKey+signature)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, ErrTokenInvalid
	}
	return claims.UserID, nil
}
