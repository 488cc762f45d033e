package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 访问令牌与刷新令牌的载荷
type UserClaims struct {
	UserID    uint64 `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AssertionClaims 网关签发给下游服务的身份断言，Subject 为用户 id，Audience 为目标服务名
type AssertionClaims struct {
	jwt.RegisteredClaims
}
