package thread

import (
	"context"

	"anoa.com/neoboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortReplies  = "replies"
	SortActivity = "activity"
)

type Repository interface {
	CreateWithOriginalPost(ctx context.Context, thread *entity.Thread, op *entity.Post) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error)
	FindActiveByBoard(ctx context.Context, boardID uuid.UUID, sort string, offset, limit int) ([]*entity.Thread, error)
	UpdateFlags(ctx context.Context, id uuid.UUID, fields map[string]any) error
	SoftDeleteCascade(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
	Count(ctx context.Context) (int64, error)
}

// DeleteResult lists what a cascade removed.
type DeleteResult struct {
	Thread  entity.Thread
	PostIDs []uuid.UUID
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithOriginalPost writes the thread, its OP post and every counter they
// touch in one transaction.
func (r *repository) CreateWithOriginalPost(ctx context.Context, thread *entity.Thread, op *entity.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Board", "Author").Create(thread).Error; err != nil {
			return err
		}

		op.ThreadID = thread.ID
		op.IsOP = true
		if err := tx.Omit("Thread", "Author").Create(op).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Board{}).
			Where("id = ?", thread.BoardID).
			Updates(map[string]any{
				"thread_count":  gorm.Expr("thread_count + ?", 1),
				"post_count":    gorm.Expr("post_count + ?", 1),
				"last_activity": thread.CreatedAt,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&entity.User{}).
			Where("id = ?", thread.AuthorID).
			UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error
	})
}

func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	var thread entity.Thread
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND is_active = ?", id, true).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *repository) FindActiveByBoard(ctx context.Context, boardID uuid.UUID, sort string, offset, limit int) ([]*entity.Thread, error) {
	query := r.db.WithContext(ctx).
		Preload("Author").
		Where("board_id = ? AND is_active = ?", boardID, true)

	switch sort {
	case SortNewest:
		query = query.Order("created_at DESC")
	case SortOldest:
		query = query.Order("created_at ASC")
	case SortReplies:
		query = query.Order("reply_count DESC").Order("last_reply DESC")
	default:
		query = query.Order("is_sticky DESC").Order("last_reply DESC")
	}

	var threads []*entity.Thread
	if err := query.Offset(offset).Limit(limit).Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *repository) UpdateFlags(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entity.Thread{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// SoftDeleteCascade deactivates the thread and its posts and removes them from
// the board counters. It returns gorm.ErrRecordNotFound when the thread is
// already inactive.
func (r *repository) SoftDeleteCascade(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	result := &DeleteResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_active = ?", id, true).First(&result.Thread).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Post{}).
			Where("thread_id = ? AND is_active = ?", id, true).
			Pluck("id", &result.PostIDs).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Thread{}).
			Where("id = ?", id).
			Update("is_active", false).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.Post{}).
			Where("thread_id = ? AND is_active = ?", id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Board{}).
			Where("id = ?", result.Thread.BoardID).
			Updates(map[string]any{
				"thread_count": gorm.Expr("thread_count - ?", 1),
				"post_count":   gorm.Expr("post_count - ?", result.Thread.ReplyCount+1),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	result.Thread.IsActive = false
	return result, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Thread{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
