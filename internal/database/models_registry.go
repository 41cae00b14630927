package database

import (
	"fmt"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Item{},
		&models.Claim{},
		&models.Comment{},
		&models.ModerationAudit{},
	}
}

// pendingClaimIndexSQL is valid on both PostgreSQL and SQLite. GORM struct
// tags cannot express a partial index, so AutoMigrate adds it explicitly.
const pendingClaimIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_one_pending ON claims (item_id, user_id) WHERE status = 'PENDING'`

// AutoMigrate creates or updates every persistent table plus the indexes
// struct tags cannot describe.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return err
	}
	if err := db.Exec(pendingClaimIndexSQL).Error; err != nil {
		return fmt.Errorf("create pending claim index: %w", err)
	}
	return nil
}
