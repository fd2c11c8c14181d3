package api

import "time"

// AdminUser is a single row in the admin user listing. Encrypted profile
// contents are never exposed here, only the has_profile flag.
type AdminUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	HasProfile bool      `json:"has_profile"`
}

// UsersResponse is returned by GET /api/admin/users.
type UsersResponse struct {
	Success bool        `json:"success"`
	Users   []AdminUser `json:"users"`
}

// UserDetailResponse is returned by GET /api/admin/users/{id}.
type UserDetailResponse struct {
	Success bool      `json:"success"`
	User    AdminUser `json:"user"`
}
