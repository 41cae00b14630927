package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"lostfound/internal/middleware"

	"gorm.io/gorm"
)

// ErrSQLMigrationsUnsupported is returned when the embedded SQL migrations
// are pointed at a non-PostgreSQL database.
var ErrSQLMigrationsUnsupported = errors.New("embedded sql migrations are PostgreSQL-only; use auto schema mode for sqlite")

const ensureMigrationLogTableSQL = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_migration_logs_applied_at ON migration_logs (applied_at);`

// MigrationLog is one row of the migration_logs ledger.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

func requirePostgres(db *gorm.DB) error {
	if db.Dialector == nil || db.Dialector.Name() != "postgres" {
		return ErrSQLMigrationsUnsupported
	}
	return nil
}

// appliedVersions lists logged versions in ascending order. A missing
// ledger table reads as an empty ledger.
func appliedVersions(ctx context.Context, db *gorm.DB) ([]int, error) {
	var versions []int
	err := db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	return versions, nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

// pendingMigrations returns the registered migrations missing from applied,
// in version order.
func pendingMigrations(applied []int) []Migration {
	done := make(map[int]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}
	var pending []Migration
	for _, m := range migrations {
		if _, ok := done[m.Version]; !ok {
			pending = append(pending, m)
		}
	}
	return pending
}

// applyOne runs the up script and logs the version in one transaction, so a
// failed script never leaves a ledger row behind.
func applyOne(ctx context.Context, db *gorm.DB, m Migration) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("apply migration %s: %w", m.String(), err)
		}
		if err := tx.Exec("INSERT INTO migration_logs (version, name) VALUES (?, ?)", m.Version, m.Name).Error; err != nil {
			return fmt.Errorf("log migration %s: %w", m.String(), err)
		}
		return nil
	})
}

// RunMigrations creates the ledger table if needed and applies every pending
// migration in version order.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := requirePostgres(db); err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(ensureMigrationLogTableSQL).Error; err != nil {
		return fmt.Errorf("ensure migration ledger: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return err
	}

	pending := pendingMigrations(applied)
	if len(pending) == 0 {
		middleware.Logger.Debug("Schema is current", slog.Int("applied", len(applied)))
		return nil
	}
	for _, m := range pending {
		middleware.Logger.Info("Applying migration", slog.String("migration", m.String()))
		if err := applyOne(ctx, db, m); err != nil {
			return err
		}
	}
	middleware.Logger.Info("Migrations applied", slog.Int("count", len(pending)))
	return nil
}

// validateAppliedVersions fails when the ledger names a version this build
// does not embed, which usually means the database was migrated by a newer
// binary.
func validateAppliedVersions(applied []int, registered []Migration) error {
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []string
	sorted := append([]int(nil), applied...)
	sort.Ints(sorted)
	for _, version := range sorted {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("migration ledger has versions this build does not embed: %s (run `migrate down` with the newer build first)",
		strings.Join(unknown, ", "))
}

// RollbackMigration runs the down script for an applied version and removes
// its ledger row in one transaction.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	if err := requirePostgres(db); err != nil {
		return err
	}
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	idx := sort.SearchInts(applied, version)
	if idx == len(applied) || applied[idx] != version {
		return fmt.Errorf("migration %s has not been applied", m.String())
	}

	middleware.Logger.Info("Rolling back migration", slog.String("migration", m.String()))
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("roll back migration %s: %w", m.String(), err)
		}
		if err := tx.Where("version = ?", version).Delete(&MigrationLog{}).Error; err != nil {
			return fmt.Errorf("unlog migration %s: %w", m.String(), err)
		}
		return nil
	})
}
