package dto

type ValidateTokenDTO struct {
	Token string `json:"token" binding:"required"`
}

type ValidateTokenResultDTO struct {
	UserID uint64 `json:"user_id"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
