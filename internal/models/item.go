package models

import "time"

// ItemType distinguishes lost reports from found reports.
type ItemType string

const (
	// ItemTypeLost is a report of something the poster lost.
	ItemTypeLost ItemType = "LOST"
	// ItemTypeFound is a report of something the poster found.
	ItemTypeFound ItemType = "FOUND"
)

// ItemStatus is the lifecycle state of an item.
type ItemStatus string

const (
	ItemStatusLost     ItemStatus = "LOST"
	ItemStatusFound    ItemStatus = "FOUND"
	ItemStatusClaimed  ItemStatus = "CLAIMED"
	ItemStatusResolved ItemStatus = "RESOLVED"
	ItemStatusDeleted  ItemStatus = "DELETED"
)

// IsOpen reports whether the item still accepts a winning claim.
func (s ItemStatus) IsOpen() bool {
	return s == ItemStatusLost || s == ItemStatusFound
}

// ModerationState records why an item is hidden, independently of ItemStatus.
// A spam flag reuses the RESOLVED status, so this field is the only reliable
// way to tell a spam-flagged item from a genuinely resolved one.
type ModerationState string

const (
	ModerationStateNone        ModerationState = "NONE"
	ModerationStateSpamFlagged ModerationState = "SPAM_FLAGGED"
)

// Item is a posted lost or found report.
type Item struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ItemType        ItemType        `gorm:"type:varchar(8);not null" json:"item_type"`
	Status          ItemStatus      `gorm:"type:varchar(16);not null;index" json:"status"`
	ModerationState ModerationState `gorm:"type:varchar(16);not null;default:'NONE'" json:"moderation_state"`
	Title           string          `gorm:"size:200;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	Location        string          `gorm:"size:200" json:"location"`
	PostedByID      uint            `gorm:"not null;index" json:"posted_by_id"`
	PostedBy        *User           `gorm:"foreignKey:PostedByID" json:"posted_by,omitempty"`
	ClaimedByID     *uint           `gorm:"index" json:"claimed_by_id"`
	ResolvedAt      *time.Time      `json:"resolved_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Item) TableName() string {
	return "items"
}

// IsSpamFlagged reports whether the item is hidden by a spam flag rather than resolved.
func (i *Item) IsSpamFlagged() bool {
	return i.Status == ItemStatusResolved && i.ModerationState == ModerationStateSpamFlagged
}

// IsTerminal reports whether no further transition is possible. A
// spam-flagged RESOLVED item can still be unflagged, so it is not terminal.
func (i *Item) IsTerminal() bool {
	switch i.Status {
	case ItemStatusDeleted:
		return true
	case ItemStatusResolved:
		return i.ModerationState != ModerationStateSpamFlagged
	}
	return false
}

// CanBeClaimedBy reports whether approving a claim by userID may advance the item.
func (i *Item) CanBeClaimedBy(userID uint) bool {
	if i.Status == ItemStatusResolved || i.Status == ItemStatusDeleted {
		return false
	}
	return i.ClaimedByID == nil || *i.ClaimedByID == userID
}

// InitialStatus returns the status a freshly posted item of type t starts in.
func InitialStatus(t ItemType) ItemStatus {
	if t == ItemTypeFound {
		return ItemStatusFound
	}
	return ItemStatusLost
}
