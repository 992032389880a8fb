package post

import (
	"context"
	"fmt"
	"time"

	"anoa.com/neoboard/internal/entity"
	postDto "anoa.com/neoboard/internal/modules/post/dto"
	postRepo "anoa.com/neoboard/internal/modules/post/repository"
	realtime "anoa.com/neoboard/internal/modules/realtime/service"
	search "anoa.com/neoboard/internal/modules/search/service"
	threadRepo "anoa.com/neoboard/internal/modules/thread/repository"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/dto"
	"anoa.com/neoboard/pkg/metrics"
	"anoa.com/neoboard/pkg/ratelimiter"
	"anoa.com/neoboard/pkg/response"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultPageLimit = 50

type PostService interface {
	ListByThread(ctx context.Context, threadID uuid.UUID, page dto.PageQuery) ([]dto.PostResponse, error)
	CreatePost(ctx context.Context, auth response.AuthContext, req postDto.CreatePostRequest) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, auth response.AuthContext, id uuid.UUID, req postDto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, auth response.AuthContext, id uuid.UUID) error
}

type postService struct {
	postRepo    postRepo.PostRepository
	threadRepo  threadRepo.Repository
	redisClient *redis.Client
	cooldown    time.Duration
	meili       search.SearchService
	hub         realtime.Hub
}

// NewPostService wires the reply use cases. redisClient, meili and hub may be nil.
func NewPostService(postRepo postRepo.PostRepository, threadRepo threadRepo.Repository, redisClient *redis.Client, cooldown time.Duration, meili search.SearchService, hub realtime.Hub) PostService {
	return &postService{
		postRepo:    postRepo,
		threadRepo:  threadRepo,
		redisClient: redisClient,
		cooldown:    cooldown,
		meili:       meili,
		hub:         hub,
	}
}

func (s *postService) ListByThread(ctx context.Context, threadID uuid.UUID, page dto.PageQuery) ([]dto.PostResponse, error) {
	if _, err := s.findThread(ctx, threadID); err != nil {
		return nil, err
	}

	offset := page.Normalize(DefaultPageLimit)
	posts, err := s.postRepo.FindActiveByThread(ctx, threadID, offset, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	resp := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, postDto.NewPostResponse(p))
	}
	return resp, nil
}

func (s *postService) CreatePost(ctx context.Context, auth response.AuthContext, req postDto.CreatePostRequest) (*dto.PostResponse, error) {
	if !auth.Authenticated() {
		return nil, apperror.Unauthorized("Access denied. No token provided.")
	}

	threadID, err := uuid.Parse(req.ThreadID)
	if err != nil {
		return nil, apperror.NotFound("Thread not found")
	}

	thread, err := s.findThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, apperror.Forbidden("Thread is locked")
	}

	var replyTo *uuid.UUID
	if req.ReplyTo != nil && *req.ReplyTo != "" {
		target, err := s.findReplyTarget(ctx, thread.ID, *req.ReplyTo)
		if err != nil {
			return nil, err
		}
		replyTo = &target.ID
	}

	release, err := ratelimiter.Acquire(ctx, s.redisClient, *auth.UserID, ratelimiter.ScopePost, s.cooldown)
	if err != nil {
		return nil, err
	}
	created := false
	defer func() {
		if !created {
			release()
		}
	}()

	post := &entity.Post{
		ThreadID:  thread.ID,
		Content:   req.Content,
		AuthorID:  *auth.UserID,
		ReplyTo:   replyTo,
		Images:    req.Images,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.postRepo.CreateReply(ctx, post, thread.BoardID); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	created = true
	metrics.PostsCreated.Inc()

	saved, err := s.findActive(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	resp := postDto.NewPostResponse(saved)
	s.indexPost(saved, thread)
	s.publish(ctx, realtime.Event{
		Type:     realtime.EventPostCreated,
		ThreadID: thread.ID,
		PostID:   &saved.ID,
		Post:     &resp,
	})

	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, auth response.AuthContext, id uuid.UUID, req postDto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwner(post.AuthorID, "Not authorized to edit this post"); err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdateContent(ctx, post.ID, req.Content); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	post.Content = req.Content

	if thread, err := s.threadRepo.FindActiveByID(ctx, post.ThreadID); err == nil {
		s.indexPost(post, thread)
	}

	resp := postDto.NewPostResponse(post)
	return &resp, nil
}

func (s *postService) DeletePost(ctx context.Context, auth response.AuthContext, id uuid.UUID) error {
	post, err := s.findActive(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AssertOwner(post.AuthorID, "Not authorized to delete this post"); err != nil {
		return err
	}
	if post.IsOP {
		return apperror.Forbidden("Cannot delete original post. Delete the thread instead.")
	}

	if err := s.postRepo.SoftDeleteReply(ctx, post); err != nil {
		return s.wrapNotFound(err, "Post not found", "failed to delete post")
	}

	s.unindexPost(post.ID)
	s.publish(ctx, realtime.Event{
		Type:     realtime.EventPostDeleted,
		ThreadID: post.ThreadID,
		PostID:   &post.ID,
	})
	return nil
}
