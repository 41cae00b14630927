package models

import "time"

// RedactedCommentContent replaces the body of comments on force-deleted items.
const RedactedCommentContent = "[removed by moderator]"

// Comment is a remark left on an item. Comments are redacted, never deleted,
// when their item is force-deleted.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	Redacted  bool      `gorm:"not null;default:false" json:"redacted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}
