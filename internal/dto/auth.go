package dto

// ProfileInput is the nested profile block accepted at registration and on
// profile updates.
type ProfileInput struct {
	FirstName string `json:"firstName" binding:"omitempty,max=50"`
	LastName  string `json:"lastName" binding:"omitempty,max=50"`
	Bio       string `json:"bio" binding:"omitempty,max=500"`
}

type RegisterRequest struct {
	Email    string        `json:"email" binding:"required,email"`
	Password string        `json:"password" binding:"required,min=8,max=100"`
	Username string        `json:"username" binding:"required,min=2,max=50"`
	Profile  *ProfileInput `json:"profile" binding:"omitempty"`
	Role     string        `json:"role" binding:"omitempty,oneof=user admin"`
}

// LoginRequest accepts either email or username as the identifier. Email
// wins when both are supplied.
type LoginRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username" binding:"omitempty"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TokenPairResponse is returned by login, refresh and resend-verification.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UpdateMeRequest struct {
	Profile *ProfileInput `json:"profile" binding:"required"`
}
