package domain

// TokenClaims represents the signed token payload
type TokenClaims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenResponse is returned after successful authentication
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthContext contains authenticated user info for request context
type AuthContext struct {
	Username string `json:"username"`
}
