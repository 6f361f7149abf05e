// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for UserState,
// the row holding one serialized UserData document per storage key.
//
// Error semantics:
//   - A missing row is reported as ErrNotFound.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the store layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetUserState fetches the document stored under key, or ErrNotFound.
func GetUserState(ctx context.Context, db *gorm.DB, key string) (*domain.UserState, error) {
	var st domain.UserState
	err := db.WithContext(ctx).
		Where("key = ?", key).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveUserState inserts or overwrites the document stored under key.
func SaveUserState(ctx context.Context, db *gorm.DB, key, document string) error {
	now := time.Now().UTC()
	st := &domain.UserState{
		Key:       key,
		Document:  document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(st).Error
}

// DeleteUserState removes the document stored under key. Missing rows are
// not an error.
func DeleteUserState(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&domain.UserState{}).Error
}
