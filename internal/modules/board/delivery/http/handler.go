package handler

import (
	"net/http"

	"anoa.com/neoboard/internal/modules/board/dto"
	board "anoa.com/neoboard/internal/modules/board/service"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	service board.BoardService
}

func NewBoardHandler(service board.BoardService) *BoardHandler {
	return &BoardHandler{service: service}
}

func (h *BoardHandler) ListBoards(c *gin.Context) {
	boards, err := h.service.ListBoards(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BoardListResponse{Success: true, Boards: boards})
}

func (h *BoardHandler) GetBoard(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBoard(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BoardEnvelope{Success: true, Board: *b})
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	b, err := h.service.CreateBoard(c.Request.Context(), response.GetAuth(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.BoardEnvelope{Success: true, Board: *b})
}

func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}

	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	b, err := h.service.UpdateBoard(c.Request.Context(), response.GetAuth(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BoardEnvelope{Success: true, Board: *b})
}

func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBoard(c.Request.Context(), response.GetAuth(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "Board deleted successfully")
}

func boardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.NotFound("Board not found"))
		return uuid.Nil, false
	}
	return id, true
}
