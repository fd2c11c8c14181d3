package api

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo carries the non-sensitive account fields returned on login.
// Password hashes and key material never appear here.
type UserInfo struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// LoginResponse is returned on successful login. The session token itself
// travels only in the HttpOnly cookie.
type LoginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

// VerifyResponse is returned by GET /api/auth/verify for a valid session.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// RoleResponse is returned by GET /api/auth/role.
type RoleResponse struct {
	Role string `json:"role"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password-request.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// MessageResponse is a generic success envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope for all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
