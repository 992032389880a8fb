package apiclient

import (
	"fmt"
	"net/http"

	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/dto"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string           `json:"token"`
	User  dto.UserResponse `json:"user"`
}

type CreateBoardRequest struct {
	Name        string `json:"name" validate:"required,min=4,max=20,boardname"`
	Description string `json:"description" validate:"required,max=200"`
	Category    string `json:"category,omitempty" validate:"omitempty,oneof=Technology Entertainment Creative General"`
	IsNSFW      bool   `json:"isNSFW"`
}

type UpdateBoardRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,oneof=Technology Entertainment Creative General"`
	IsNSFW      *bool   `json:"isNSFW,omitempty"`
}

type CreateThreadRequest struct {
	BoardID uuid.UUID `json:"boardId"`
	Title   string    `json:"title" validate:"required,max=200"`
	Content string    `json:"content" validate:"required,max=5000"`
	Images  []string  `json:"images,omitempty" validate:"omitempty,max=10,dive,imageurl"`
	Tags    []string  `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=20"`
}

type UpdateThreadRequest struct {
	IsSticky *bool `json:"isSticky,omitempty"`
	IsLocked *bool `json:"isLocked,omitempty"`
}

type CreatePostRequest struct {
	ThreadID uuid.UUID  `json:"threadId"`
	Content  string     `json:"content" validate:"required,max=5000"`
	Images   []string   `json:"images,omitempty" validate:"omitempty,max=10,dive,imageurl"`
	ReplyTo  *uuid.UUID `json:"replyTo,omitempty"`
}

// ThreadQuery selects a page of a board's threads. Sort is one of newest,
// oldest, replies or activity; empty means activity.
type ThreadQuery struct {
	dto.PageQuery
	Sort string
}

// APIError is a non-2xx answer from the server. It unwraps to the matching
// apperror sentinel so callers can use errors.Is against either store.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return apperror.ErrNotFound
	case http.StatusUnauthorized:
		return apperror.ErrUnauthorized
	case http.StatusForbidden:
		return apperror.ErrForbidden
	case http.StatusBadRequest:
		return apperror.ErrBadRequest
	case http.StatusTooManyRequests:
		return apperror.ErrRateLimitExceeded
	case http.StatusServiceUnavailable:
		return apperror.ErrUnavailable
	default:
		return apperror.ErrInternal
	}
}
