package dto

// LoginRequest carries staff login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@school.edu"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshTokenRequest carries a refresh token to exchange for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}
