package handler

import (
	"net/http"

	postDto "anoa.com/neoboard/internal/modules/post/dto"
	post "anoa.com/neoboard/internal/modules/post/service"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/dto"
	"anoa.com/neoboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) ListByThread(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("threadId"))
	if err != nil {
		response.ResponseError(c, apperror.NotFound("Thread not found"))
		return
	}

	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.ResponseError(c, err)
		return
	}

	posts, err := h.service.ListByThread(c.Request.Context(), threadID, page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, postDto.PostListResponse{Success: true, Posts: posts})
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req postDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	p, err := h.service.CreatePost(c.Request.Context(), response.GetAuth(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, postDto.PostEnvelope{Success: true, Post: *p})
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req postDto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	p, err := h.service.UpdatePost(c.Request.Context(), response.GetAuth(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, postDto.PostEnvelope{Success: true, Post: *p})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), response.GetAuth(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "Post deleted successfully")
}

func postID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.NotFound("Post not found"))
		return uuid.Nil, false
	}
	return id, true
}
