package repository

import (
	"context"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

// AuditFilter narrows an audit listing. Zero values are ignored.
type AuditFilter struct {
	TargetType models.AuditTargetType
	TargetID   uint
	ActorID    uint
	Limit      int
	Offset     int
}

// AuditRepository stores the moderation audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.ModerationAudit) error
	List(ctx context.Context, filter AuditFilter) ([]models.ModerationAudit, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository returns a new AuditRepository implementation.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.ModerationAudit) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]models.ModerationAudit, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	q := r.db.WithContext(ctx).Model(&models.ModerationAudit{})
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != 0 {
		q = q.Where("target_id = ?", filter.TargetID)
	}
	if filter.ActorID != 0 {
		q = q.Where("actor_id = ?", filter.ActorID)
	}

	var entries []models.ModerationAudit
	if err := q.Order("created_at desc").Limit(limit).Offset(filter.Offset).Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
