package handler

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/pkg/response"
	"Booklet/internal/service"

	"github.com/gin-gonic/gin"
)

type TokenHandler struct {
	tokenSvc service.TokenService
}

func NewTokenHandler(tokenSvc service.TokenService) *TokenHandler {
	return &TokenHandler{tokenSvc: tokenSvc}
}

// ValidateToken 供网关解析身份
func (s *TokenHandler) ValidateToken(c *gin.Context) {
	var req dto.ValidateTokenDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrTokenMissing)
		return
	}

	userID, err := s.tokenSvc.ValidateAccessToken(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ValidateTokenResultDTO{UserID: userID})
}

func (s *TokenHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	token, err := s.tokenSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

func (s *TokenHandler) Logout(c *gin.Context) {
	if err := s.tokenSvc.Revoke(c.Request.Context(), c.GetString("token")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
