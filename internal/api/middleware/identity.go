package middleware

import (
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/logger"
	"Booklet/internal/pkg/response"
	"Booklet/internal/pkg/security"
	"Booklet/internal/service"
	"errors"
	log "log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	errIdentityMissing   = errors.New("identity header missing")
	errAssertionMismatch = errors.New("identity assertion does not match user")
)

// IdentityVerifier 校验网关注入的身份头
// issuer 为 nil 时直接信任 X-User-Id
type IdentityVerifier struct {
	issuer   *security.TokenIssuer
	audience string
}

func NewIdentityVerifier(issuer *security.TokenIssuer, audience string) *IdentityVerifier {
	if issuer == nil {
		log.Warn("identity assertion secret not configured, trusting X-User-Id header as is", "service", audience)
	}
	return &IdentityVerifier{issuer: issuer, audience: strings.ToLower(audience)}
}

func (v *IdentityVerifier) verify(c *gin.Context) (uint64, error) {
	raw := strings.TrimSpace(c.GetHeader(consts.HeaderUserID))
	if raw == "" {
		return 0, errIdentityMissing
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return 0, security.ErrTokenMalformed
	}
	if v.issuer == nil {
		return userID, nil
	}

	subject, err := v.issuer.ValidateAssertion(c.GetHeader(consts.HeaderIdentityAssertion), v.audience)
	if err != nil {
		return 0, err
	}
	if subject != userID {
		return 0, errAssertionMismatch
	}
	return userID, nil
}

// TrustedIdentityMiddleware 要求请求携带网关注入的有效身份
func TrustedIdentityMiddleware(v *IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := v.verify(c)
		if err != nil {
			log.WarnContext(c.Request.Context(), "reject request identity", "path", c.Request.URL.Path, "err", err)
			response.Abort(c, service.UnauthorizedError)
			return
		}
		setUserID(c, userID)
		c.Next()
	}
}

func setUserID(c *gin.Context, userID uint64) {
	c.Set(logger.UserIDKey, userID)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
}
