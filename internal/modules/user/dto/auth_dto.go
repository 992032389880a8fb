package dto

import (
	"anoa.com/neoboard/internal/entity"
	commonDto "anoa.com/neoboard/pkg/dto"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Success bool                   `json:"success"`
	Token   string                 `json:"token"`
	User    commonDto.UserResponse `json:"user"`
}

type UserEnvelope struct {
	Success bool                   `json:"success"`
	User    commonDto.UserResponse `json:"user"`
}

// NewUserResponse builds the public view of u. Email is only exposed to the
// user themselves; pass withEmail=false for author sub-objects.
func NewUserResponse(u *entity.User, withEmail bool) commonDto.UserResponse {
	resp := commonDto.UserResponse{
		ID:          u.ID,
		Username:    u.DisplayName(),
		IsAnonymous: u.IsAnonymous,
		JoinDate:    u.JoinDate,
		PostCount:   u.PostCount,
	}
	if withEmail && u.Email != nil {
		resp.Email = *u.Email
	}
	return resp
}
