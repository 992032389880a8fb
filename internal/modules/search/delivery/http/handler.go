package handler

import (
	"net/http"

	"anoa.com/neoboard/internal/modules/search/dto"
	search "anoa.com/neoboard/internal/modules/search/service"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SearchHandler struct {
	service search.SearchService
}

// NewSearchHandler accepts a nil service; requests then fail with 503.
func NewSearchHandler(service search.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchThreads(c *gin.Context) {
	if h.service == nil {
		response.ResponseError(c, apperror.Unavailable("Search is not configured"))
		return
	}

	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ResponseError(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	var boardID *uuid.UUID
	if q.BoardID != "" {
		id := uuid.MustParse(q.BoardID)
		boardID = &id
	}

	hits, err := h.service.SearchThreads(c.Request.Context(), q.Query, boardID, q.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SearchResponse{Success: true, Threads: hits})
}
