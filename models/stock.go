package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockBalance is the on-hand quantity of one item in one warehouse.
type StockBalance struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"size:64;not null;uniqueIndex:idx_stock_item_warehouse,priority:1" json:"business_id"`
	ItemId      int             `gorm:"not null;uniqueIndex:idx_stock_item_warehouse,priority:2" json:"item_id"`
	WarehouseId int             `gorm:"not null;uniqueIndex:idx_stock_item_warehouse,priority:3" json:"warehouse_id"`
	CurrentQty  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"current_qty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func AddStock(tx *gorm.DB, businessId string, itemId int, warehouseId int, qty decimal.Decimal) error {
	return updateStockQty(tx, businessId, itemId, warehouseId, qty)
}

func SubtractStock(tx *gorm.DB, businessId string, itemId int, warehouseId int, qty decimal.Decimal) error {
	return updateStockQty(tx, businessId, itemId, warehouseId, qty.Neg())
}

func updateStockQty(tx *gorm.DB, businessId string, itemId int, warehouseId int, qty decimal.Decimal) error {
	if itemId <= 0 || qty.IsZero() {
		return nil
	}
	seed := StockBalance{BusinessId: businessId, ItemId: itemId, WarehouseId: warehouseId}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return err
	}
	return tx.Model(&StockBalance{}).
		Where("business_id = ? AND item_id = ? AND warehouse_id = ?", businessId, itemId, warehouseId).
		UpdateColumn("current_qty", gorm.Expr("current_qty + CAST(? AS DECIMAL(20,4))", qty)).Error
}

func GetStockQty(ctx context.Context, itemId int, warehouseId int) (decimal.Decimal, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	var stock StockBalance
	err = config.GetDB().WithContext(ctx).
		Where("business_id = ? AND item_id = ? AND warehouse_id = ?", businessId, itemId, warehouseId).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return stock.CurrentQty, nil
}
