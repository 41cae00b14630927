package repository

import (
	"context"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByItem(ctx context.Context, itemID uint) ([]models.Comment, error)
	RedactByItem(ctx context.Context, itemID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at asc").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// RedactByItem replaces the content of every not-yet-redacted comment on
// the item and clears its image. Comments are kept for the record.
func (r *commentRepository) RedactByItem(ctx context.Context, itemID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("item_id = ? AND redacted = ?", itemID, false).
		Updates(map[string]any{
			"content":   models.RedactedCommentContent,
			"image_url": "",
			"redacted":  true,
		})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
