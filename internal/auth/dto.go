package auth

import "github.com/angelmondragon/propertyhub/internal/users"

// LoginRequest captures the credentials posted to /login.
type LoginRequest struct {
	Email    string `form:"email,required"`
	Password string `form:"password,required"`
}

// RegisterRequest captures the self-registration form.
type RegisterRequest struct {
	Name            string `form:"name,required"`
	Email           string `form:"email,required"`
	Password        string `form:"password,required"`
	ConfirmPassword string `form:"confirm_password,required"`
}

// LoginResult identifies the authenticated user.
type LoginResult struct {
	User *users.UserDTO `json:"user"`
}
