package auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Jordan Lee"`
	Username string `json:"username" binding:"required,min=3,max=30" example:"jordan_lee"`
	Email    string `json:"email" binding:"required,email" example:"jordan@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
}

type LoginRequest struct {
	// LoginIdentifier can be an email address or a username.
	LoginIdentifier string `json:"login_identifier" binding:"required" example:"jordan@example.com"`
	Password        string `json:"password" binding:"required" example:"password123"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
