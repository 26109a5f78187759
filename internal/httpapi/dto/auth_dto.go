package dto

// Data Transfer Objects for the signup and token-exchange flow

// SignupRequest: payload for requesting a confirmation code
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the submitted pair whether the user was freshly
// created or already existed with matching fields.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for an access token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=150"`
}

// TokenResponse: the short-lived signed access token
type TokenResponse struct {
	Token string `json:"token"`
}
