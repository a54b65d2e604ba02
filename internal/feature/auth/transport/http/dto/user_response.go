package dto

import (
	"library_backend/internal/api"
	"library_backend/internal/feature/auth/domain/entity"
)

// FromUser converts a user to its public form. The password hash is dropped.
func FromUser(u *entity.User) api.User {
	return api.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
