package repository

import (
	"context"
	"time"

	"anoa.com/neoboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	CreateReply(ctx context.Context, post *entity.Post, boardID uuid.UUID) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindActiveByThread(ctx context.Context, threadID uuid.UUID, offset, limit int) ([]*entity.Post, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	SoftDeleteReply(ctx context.Context, post *entity.Post) error
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// CreateReply stores a non-OP post and bumps the thread, board and author
// counters in the same transaction.
func (r *postRepository) CreateReply(ctx context.Context, post *entity.Post, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post.IsOP = false
		if post.CreatedAt.IsZero() {
			post.CreatedAt = time.Now()
		}
		if err := tx.Omit("Thread", "Author").Create(post).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Thread{}).
			Where("id = ?", post.ThreadID).
			Updates(map[string]any{
				"reply_count": gorm.Expr("reply_count + ?", 1),
				"last_reply":  post.CreatedAt,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Board{}).
			Where("id = ?", boardID).
			Updates(map[string]any{
				"post_count":    gorm.Expr("post_count + ?", 1),
				"last_activity": post.CreatedAt,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&entity.User{}).
			Where("id = ?", post.AuthorID).
			UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error
	})
}

func (r *postRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND is_active = ?", id, true).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindActiveByThread(ctx context.Context, threadID uuid.UUID, offset, limit int) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("thread_id = ? AND is_active = ?", threadID, true).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("content", content).Error
}

// SoftDeleteReply deactivates a reply and takes it off the thread and board
// counters. It returns gorm.ErrRecordNotFound if the post was already gone.
func (r *postRepository) SoftDeleteReply(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Post{}).
			Where("id = ? AND is_active = ? AND is_op = ?", post.ID, true, false).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var thread entity.Thread
		if err := tx.Select("id", "board_id").Where("id = ?", post.ThreadID).First(&thread).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Thread{}).
			Where("id = ? AND reply_count > ?", thread.ID, 0).
			UpdateColumn("reply_count", gorm.Expr("reply_count - ?", 1)).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Board{}).
			Where("id = ? AND post_count > ?", thread.BoardID, 0).
			UpdateColumn("post_count", gorm.Expr("post_count - ?", 1)).Error
	})
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
