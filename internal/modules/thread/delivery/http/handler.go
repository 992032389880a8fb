package handler

import (
	"net/http"

	threadDto "anoa.com/neoboard/internal/modules/thread/dto"
	thread "anoa.com/neoboard/internal/modules/thread/service"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ThreadHandler struct {
	service thread.Service
}

func NewThreadHandler(service thread.Service) *ThreadHandler {
	return &ThreadHandler{service: service}
}

func (h *ThreadHandler) ListByBoard(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("boardId"))
	if err != nil {
		response.ResponseError(c, apperror.NotFound("Board not found"))
		return
	}

	var query threadDto.ThreadListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, err)
		return
	}

	threads, err := h.service.ListByBoard(c.Request.Context(), boardID, query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, threadDto.ThreadListResponse{Success: true, Threads: threads})
}

func (h *ThreadHandler) GetThread(c *gin.Context) {
	id, ok := threadID(c)
	if !ok {
		return
	}

	t, err := h.service.GetThread(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, threadDto.ThreadEnvelope{Success: true, Thread: *t})
}

func (h *ThreadHandler) CreateThread(c *gin.Context) {
	var req threadDto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	t, err := h.service.CreateThread(c.Request.Context(), response.GetAuth(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, threadDto.ThreadEnvelope{Success: true, Thread: *t})
}

func (h *ThreadHandler) UpdateThread(c *gin.Context) {
	id, ok := threadID(c)
	if !ok {
		return
	}

	var req threadDto.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	t, err := h.service.UpdateThread(c.Request.Context(), response.GetAuth(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, threadDto.ThreadEnvelope{Success: true, Thread: *t})
}

func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	id, ok := threadID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteThread(c.Request.Context(), response.GetAuth(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "Thread deleted successfully")
}

func threadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.NotFound("Thread not found"))
		return uuid.Nil, false
	}
	return id, true
}
