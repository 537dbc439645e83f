package utils

import (
	"context"
	"errors"

	"github.com/mmdatafocus/erp_backend/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* DB fetching */

// fetch model from db
// (ctx's business_id is used in query's WHERE, may return RecordNotFound)
func FetchModel[T any](ctx context.Context, businessId string, id int, associations ...string) (*T, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	if err := dbCtx.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// lock a row for the rest of tx.
// unscoped also finds soft-deleted rows.
func LockModel[T any](tx *gorm.DB, id int, unscoped bool, associations ...string) (*T, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"})
	if unscoped {
		q = q.Unscoped()
	}
	for _, field := range associations {
		if unscoped {
			q = q.Preload(field, func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
		} else {
			q = q.Preload(field)
		}
	}
	var result T
	if err := q.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}
