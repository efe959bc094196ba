package user

import "time"

type CreateUserDTO struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserDTO struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ResetPasswordDTO struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type RoleDTO struct {
	Name        string   `json:"name" binding:"required,min=2,max=32"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	Created   time.Time  `json:"created"`
}
