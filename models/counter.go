package models

import (
	"context"
	"fmt"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const documentCodeCounterGroup = "document_code"

// Counter is a keyed, monotonically increasing sequence.
type Counter struct {
	ID           int       `gorm:"primary_key" json:"id"`
	BusinessId   string    `gorm:"size:64;not null;uniqueIndex:idx_counter_key,priority:1" json:"business_id"`
	CounterGroup string    `gorm:"size:100;not null;uniqueIndex:idx_counter_key,priority:2" json:"counter_group"`
	CounterKey   string    `gorm:"size:100;not null;uniqueIndex:idx_counter_key,priority:3" json:"counter_key"`
	Value        int64     `gorm:"not null;default:0" json:"value"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ReserveNextCode atomically increments the (group, key) counter and
// returns the new value. The first reservation returns defaultValue. With a
// nil tx the reservation commits on its own.
func ReserveNextCode(ctx context.Context, tx *gorm.DB, group string, key string, defaultValue int64) (int64, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return 0, err
	}
	if group == "" || key == "" {
		return 0, utils.NewValidationError("counter group and key are required")
	}
	if tx != nil {
		return reserveCounter(tx, businessId, group, key, defaultValue)
	}

	var value int64
	err = runInTransaction(ctx, "Counter", "ReserveNextCode", fmt.Sprintf("%s/%s", group, key), func(tx *gorm.DB) error {
		v, err := reserveCounter(tx, businessId, group, key, defaultValue)
		value = v
		return err
	})
	return value, err
}

func reserveCounter(tx *gorm.DB, businessId string, group string, key string, defaultValue int64) (int64, error) {
	seed := Counter{BusinessId: businessId, CounterGroup: group, CounterKey: key, Value: defaultValue - 1}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}
	res := tx.Model(&Counter{}).
		Where("business_id = ? AND counter_group = ? AND counter_key = ?", businessId, group, key).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("counter %s/%s not found after seeding", group, key)
	}
	var value int64
	if err := tx.Model(&Counter{}).
		Where("business_id = ? AND counter_group = ? AND counter_key = ?", businessId, group, key).
		Select("value").Scan(&value).Error; err != nil {
		return 0, err
	}
	return value, nil
}

// reserveDocumentCode returns the next human-readable code for a document type.
func reserveDocumentCode(tx *gorm.DB, businessId string, docType DocumentType) (string, int64, error) {
	seq, err := reserveCounter(tx, businessId, documentCodeCounterGroup, string(docType), 1)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%s%06d", docType.codePrefix(), seq), seq, nil
}
