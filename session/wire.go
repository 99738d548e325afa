package session

// Wire shapes for the /auth endpoints.

type sendOTPRequest struct {
	Identifier string `json:"identifier"`
}

type verifyOTPRequest struct {
	Identifier string   `json:"identifier"`
	OTP        string   `json:"otp"`
	Role       RoleType `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Role         string `json:"role,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	IsNewUser    *bool  `json:"is_new_user,omitempty"`
}
