package post

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anoa.com/neoboard/internal/entity"
	realtime "anoa.com/neoboard/internal/modules/realtime/service"
	"anoa.com/neoboard/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *postService) findActive(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	post, err := s.postRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, s.wrapNotFound(err, "Post not found", "failed to fetch post")
	}
	return post, nil
}

func (s *postService) findThread(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	thread, err := s.threadRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, s.wrapNotFound(err, "Thread not found", "failed to fetch thread")
	}
	return thread, nil
}

// findReplyTarget resolves replyTo to an active post in the same thread.
func (s *postService) findReplyTarget(ctx context.Context, threadID uuid.UUID, raw string) (*entity.Post, error) {
	notFound := apperror.NotFound("Reply target post not found")

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, notFound
	}

	target, err := s.postRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to fetch reply target: %w", err)
	}
	if target.ThreadID != threadID {
		return nil, notFound
	}
	return target, nil
}

func (s *postService) wrapNotFound(err error, notFoundMsg, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFoundMsg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *postService) indexPost(post *entity.Post, thread *entity.Thread) {
	if s.meili == nil {
		return
	}
	if err := s.meili.IndexPost(post, thread); err != nil {
		log.Printf("Failed to index post %s: %v", post.ID, err)
	}
}

func (s *postService) unindexPost(id uuid.UUID) {
	if s.meili == nil {
		return
	}
	if err := s.meili.DeletePost(id); err != nil {
		log.Printf("Failed to remove post %s from search: %v", id, err)
	}
}

func (s *postService) publish(ctx context.Context, event realtime.Event) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s for thread %s: %v", event.Type, event.ThreadID, err)
	}
}
