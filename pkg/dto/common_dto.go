package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the public view of a user, also embedded as a thread or post author.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsAnonymous bool      `json:"isAnonymous"`
	JoinDate    time.Time `json:"joinDate"`
	PostCount   int       `json:"postCount"`
}

type BoardResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	ThreadCount  int       `json:"threadCount"`
	PostCount    int       `json:"postCount"`
	LastActivity time.Time `json:"lastActivity"`
	IsNSFW       bool      `json:"isNSFW"`
	CreatedBy    uuid.UUID `json:"createdBy"`
}

type ThreadResponse struct {
	ID         uuid.UUID    `json:"id"`
	BoardID    uuid.UUID    `json:"boardId"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Author     UserResponse `json:"author"`
	CreatedAt  time.Time    `json:"createdAt"`
	LastReply  time.Time    `json:"lastReply"`
	ReplyCount int          `json:"replyCount"`
	IsSticky   bool         `json:"isSticky"`
	IsLocked   bool         `json:"isLocked"`
	Images     []string     `json:"images"`
	Tags       []string     `json:"tags"`
}

type PostResponse struct {
	ID        uuid.UUID    `json:"id"`
	ThreadID  uuid.UUID    `json:"threadId"`
	Content   string       `json:"content"`
	Author    UserResponse `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
	ReplyTo   *uuid.UUID   `json:"replyTo,omitempty"`
	Images    []string     `json:"images"`
	IsOP      bool         `json:"isOP"`
}

// PageQuery is bound from ?page=&limit=; zero values mean "use the default".
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1,max=10000"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize fills defaults and returns the row offset.
func (q *PageQuery) Normalize(defaultLimit int) int {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return (q.Page - 1) * q.Limit
}

const (
	MaxPageLimit = 100
	MaxPage      = 10000
)
