// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"lostfound/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store groups the repositories that share one connection or transaction.
type Store struct {
	db       *gorm.DB
	Users    UserRepository
	Items    ItemRepository
	Claims   ClaimRepository
	Comments CommentRepository
	Audits   AuditRepository
}

// NewStore returns repositories bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Items:    NewItemRepository(db),
		Claims:   NewClaimRepository(db),
		Comments: NewCommentRepository(db),
		Audits:   NewAuditRepository(db),
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store whose repositories all use the same
// transaction. Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// forUpdate adds a row lock. The SQLite dialect drops the clause; there the
// single-writer connection provides the same exclusion.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// mapLookupError turns a record-not-found into the NOT_FOUND AppError and
// any other failure into an internal error.
func mapLookupError(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
