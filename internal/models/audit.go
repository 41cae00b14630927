package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditTargetType names the kind of record a moderation action touched.
type AuditTargetType string

const (
	AuditTargetItem AuditTargetType = "item"
	AuditTargetUser AuditTargetType = "user"
)

// ModerationAudit records one successful staff moderation action.
type ModerationAudit struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    uint            `gorm:"not null;index" json:"actor_id"`
	TargetType AuditTargetType `gorm:"type:varchar(8);not null;index:idx_moderation_audits_target" json:"target_type"`
	TargetID   uint            `gorm:"not null;index:idx_moderation_audits_target" json:"target_id"`
	Action     string          `gorm:"size:32;not null" json:"action"`
	Detail     string          `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ModerationAudit) TableName() string {
	return "moderation_audits"
}

// BeforeCreate assigns a random ID when none was set.
func (a *ModerationAudit) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
