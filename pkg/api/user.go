package api

// CompleteProfileRequest is the body of POST /api/user/complete-profile.
// Fields arrive in plaintext over TLS and are encrypted server-side before
// they are persisted.
type CompleteProfileRequest struct {
	FullName string `json:"full_name"`
	NIK      string `json:"nik"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// CompleteProfileResponse is returned after a successful profile completion.
type CompleteProfileResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	IsVerified bool   `json:"is_verified"`
	Status     string `json:"status"`
}

// ProfileData carries the decrypted profile fields. A nil field means the
// value is absent or could not be decrypted.
type ProfileData struct {
	Email      string  `json:"email"`
	FullName   *string `json:"full_name"`
	NIK        *string `json:"nik"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	IsVerified bool    `json:"is_verified"`
	Status     string  `json:"status"`
}

// ProfileResponse is returned by GET /api/user/profile.
type ProfileResponse struct {
	Success bool        `json:"success"`
	User    ProfileData `json:"user"`
}

// VerificationStatusResponse is returned by GET /api/user/verification-status.
type VerificationStatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}
