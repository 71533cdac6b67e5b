// Package transport defines the HTTP request/response shapes for auth routes.
package transport

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type VerifyTokenResponse struct {
	Valid bool `json:"valid"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}
