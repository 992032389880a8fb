package dto

import (
	"anoa.com/neoboard/internal/entity"
	userDto "anoa.com/neoboard/internal/modules/user/dto"
	commonDto "anoa.com/neoboard/pkg/dto"
)

type CreatePostRequest struct {
	ThreadID string   `json:"threadId" binding:"required,uuid"`
	Content  string   `json:"content" binding:"required,max=5000"`
	Images   []string `json:"images" binding:"omitempty,max=10,dive,imageurl"`
	ReplyTo  *string  `json:"replyTo" binding:"omitempty,uuid"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type PostEnvelope struct {
	Success bool                   `json:"success"`
	Post    commonDto.PostResponse `json:"post"`
}

type PostListResponse struct {
	Success bool                     `json:"success"`
	Posts   []commonDto.PostResponse `json:"posts"`
}

func NewPostResponse(p *entity.Post) commonDto.PostResponse {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}

	return commonDto.PostResponse{
		ID:        p.ID,
		ThreadID:  p.ThreadID,
		Content:   p.Content,
		Author:    userDto.NewUserResponse(&p.Author, false),
		CreatedAt: p.CreatedAt,
		ReplyTo:   p.ReplyTo,
		Images:    images,
		IsOP:      p.IsOP,
	}
}
