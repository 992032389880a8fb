package dto

import (
	"anoa.com/neoboard/internal/entity"
	userDto "anoa.com/neoboard/internal/modules/user/dto"
	commonDto "anoa.com/neoboard/pkg/dto"
)

type CreateThreadRequest struct {
	BoardID string   `json:"boardId" binding:"required,uuid"`
	Title   string   `json:"title" binding:"required,max=200"`
	Content string   `json:"content" binding:"required,max=5000"`
	Images  []string `json:"images" binding:"omitempty,max=10,dive,imageurl"`
	Tags    []string `json:"tags" binding:"omitempty,max=10,dive,max=20"`
}

// UpdateThreadRequest toggles the moderation flags; nil leaves a flag unchanged.
type UpdateThreadRequest struct {
	IsSticky *bool `json:"isSticky"`
	IsLocked *bool `json:"isLocked"`
}

type ThreadListQuery struct {
	commonDto.PageQuery
	Sort string `form:"sort" binding:"omitempty,oneof=newest oldest replies activity"`
}

type ThreadEnvelope struct {
	Success bool                     `json:"success"`
	Thread  commonDto.ThreadResponse `json:"thread"`
}

type ThreadListResponse struct {
	Success bool                       `json:"success"`
	Threads []commonDto.ThreadResponse `json:"threads"`
}

func NewThreadResponse(t *entity.Thread) commonDto.ThreadResponse {
	images := []string(t.Images)
	if images == nil {
		images = []string{}
	}
	tags := []string(t.Tags)
	if tags == nil {
		tags = []string{}
	}

	return commonDto.ThreadResponse{
		ID:         t.ID,
		BoardID:    t.BoardID,
		Title:      t.Title,
		Content:    t.Content,
		Author:     userDto.NewUserResponse(&t.Author, false),
		CreatedAt:  t.CreatedAt,
		LastReply:  t.LastReply,
		ReplyCount: t.ReplyCount,
		IsSticky:   t.IsSticky,
		IsLocked:   t.IsLocked,
		Images:     images,
		Tags:       tags,
	}
}
