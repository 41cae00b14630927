package models

import (
	"strings"
	"time"
)

// ClaimType is what the claimant asserts about the item.
type ClaimType string

const (
	// ClaimTypeFoundIt asserts the claimant found the item.
	ClaimTypeFoundIt ClaimType = "FOUND_IT"
	// ClaimTypeOwnIt asserts the claimant owns the item.
	ClaimTypeOwnIt ClaimType = "OWN_IT"
)

// ParseClaimType converts user input into a ClaimType.
func ParseClaimType(raw string) (ClaimType, error) {
	switch ct := ClaimType(strings.ToUpper(strings.TrimSpace(raw))); ct {
	case ClaimTypeFoundIt, ClaimTypeOwnIt:
		return ct, nil
	}
	return "", NewValidationError("claimType must be FOUND_IT or OWN_IT")
}

// ResultingItemStatus is the status an approved claim of this type moves the item to.
func (t ClaimType) ResultingItemStatus() ItemStatus {
	if t == ClaimTypeOwnIt {
		return ItemStatusResolved
	}
	return ItemStatusClaimed
}

// ClaimStatus is the review state of a claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusApproved ClaimStatus = "APPROVED"
	ClaimStatusRejected ClaimStatus = "REJECTED"
)

// ParseResolution converts user input into a terminal ClaimStatus.
func ParseResolution(raw string) (ClaimStatus, error) {
	switch st := ClaimStatus(strings.ToUpper(strings.TrimSpace(raw))); st {
	case ClaimStatusApproved, ClaimStatusRejected:
		return st, nil
	}
	return "", NewValidationError("status must be APPROVED or REJECTED")
}

// Claim is a user's assertion about a posted item, pending review by its poster or staff.
type Claim struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ClaimType    ClaimType   `gorm:"type:varchar(16);not null" json:"claim_type"`
	Status       ClaimStatus `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	Message      string      `gorm:"type:text" json:"message,omitempty"`
	ItemID       uint        `gorm:"not null;index" json:"item_id"`
	Item         *Item       `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	UserID       uint        `gorm:"not null;index" json:"user_id"`
	ResolvedByID *uint       `json:"resolved_by_id,omitempty"`
	ResolvedAt   *time.Time  `json:"resolved_at"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Claim) TableName() string {
	return "claims"
}

// IsPending reports whether the claim is still awaiting a decision.
func (c *Claim) IsPending() bool {
	return c.Status == ClaimStatusPending
}
