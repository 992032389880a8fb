package dto

import (
	"anoa.com/neoboard/internal/entity"
	commonDto "anoa.com/neoboard/pkg/dto"
)

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required,min=4,max=20,boardname"`
	Description string `json:"description" binding:"required,max=200"`
	Category    string `json:"category" binding:"omitempty,oneof=Technology Entertainment Creative General"`
	IsNSFW      bool   `json:"isNSFW"`
}

// UpdateBoardRequest only carries the mutable fields; nil means unchanged.
type UpdateBoardRequest struct {
	Description *string `json:"description" binding:"omitempty,max=200"`
	Category    *string `json:"category" binding:"omitempty,oneof=Technology Entertainment Creative General"`
	IsNSFW      *bool   `json:"isNSFW"`
}

type BoardEnvelope struct {
	Success bool                    `json:"success"`
	Board   commonDto.BoardResponse `json:"board"`
}

type BoardListResponse struct {
	Success bool                      `json:"success"`
	Boards  []commonDto.BoardResponse `json:"boards"`
}

func NewBoardResponse(b *entity.Board) commonDto.BoardResponse {
	return commonDto.BoardResponse{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		Category:     b.Category,
		ThreadCount:  b.ThreadCount,
		PostCount:    b.PostCount,
		LastActivity: b.LastActivity,
		IsNSFW:       b.IsNSFW,
		CreatedBy:    b.CreatedBy,
	}
}
