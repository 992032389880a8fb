package dto

import search "anoa.com/neoboard/internal/modules/search/service"

type SearchQuery struct {
	Query   string `form:"q" binding:"required,max=200"`
	BoardID string `form:"boardId" binding:"omitempty,uuid"`
	Limit   int64  `form:"limit" binding:"omitempty,min=1,max=50"`
}

type SearchResponse struct {
	Success bool               `json:"success"`
	Threads []search.ThreadHit `json:"threads"`
}
