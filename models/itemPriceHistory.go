package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemPriceHistory records the unit cost a purchase or purchase return
// line moved goods at. Reversed rows stay for the audit trail.
type ItemPriceHistory struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"size:64;not null;index:idx_iph_item,priority:1;index:idx_iph_ref,priority:1" json:"business_id"`
	ItemId        int             `gorm:"not null;index:idx_iph_item,priority:2" json:"item_id"`
	WarehouseId   int             `gorm:"not null" json:"warehouse_id"`
	ReferenceType DocumentType    `gorm:"size:8;not null;index:idx_iph_ref,priority:2" json:"reference_type"`
	ReferenceId   int             `gorm:"not null;index:idx_iph_ref,priority:3" json:"reference_id"`
	DetailId      int             `gorm:"not null" json:"detail_id"`
	Qty           decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"qty"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"unit_cost"`
	HistoryDate   time.Time       `gorm:"not null" json:"history_date"`
	IsReversed    bool            `gorm:"not null;default:false;index" json:"is_reversed"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type priceHistoryLine struct {
	DetailId    int
	ItemId      int
	WarehouseId int
	Qty         decimal.Decimal
	UnitCost    decimal.Decimal
}

func recordPriceHistory(tx *gorm.DB, ref DocumentReference, date time.Time, lines []priceHistoryLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]ItemPriceHistory, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, ItemPriceHistory{
			BusinessId:    ref.BusinessId,
			ItemId:        l.ItemId,
			WarehouseId:   l.WarehouseId,
			ReferenceType: ref.Type,
			ReferenceId:   ref.Id,
			DetailId:      l.DetailId,
			Qty:           l.Qty,
			UnitCost:      l.UnitCost,
			HistoryDate:   date,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return err
	}
	return refreshLastPurchaseCosts(tx, ref.BusinessId, lineItemIds(lines))
}

// setPriceHistoryReversed flips every row of a document and recomputes the
// affected items' last purchase cost.
func setPriceHistoryReversed(tx *gorm.DB, ref DocumentReference, reversed bool) error {
	var itemIds []int
	if err := tx.Model(&ItemPriceHistory{}).
		Where("business_id = ? AND reference_type = ? AND reference_id = ?", ref.BusinessId, ref.Type, ref.Id).
		Distinct().Pluck("item_id", &itemIds).Error; err != nil {
		return err
	}
	if len(itemIds) == 0 {
		return nil
	}
	if err := tx.Model(&ItemPriceHistory{}).
		Where("business_id = ? AND reference_type = ? AND reference_id = ?", ref.BusinessId, ref.Type, ref.Id).
		Update("is_reversed", reversed).Error; err != nil {
		return err
	}
	return refreshLastPurchaseCosts(tx, ref.BusinessId, itemIds)
}

// removePriceHistory drops a document's rows for good. Used when line
// items are replaced or the document is force deleted.
func removePriceHistory(tx *gorm.DB, ref DocumentReference) error {
	var itemIds []int
	if err := tx.Model(&ItemPriceHistory{}).
		Where("business_id = ? AND reference_type = ? AND reference_id = ?", ref.BusinessId, ref.Type, ref.Id).
		Distinct().Pluck("item_id", &itemIds).Error; err != nil {
		return err
	}
	if len(itemIds) == 0 {
		return nil
	}
	if err := tx.Where("business_id = ? AND reference_type = ? AND reference_id = ?", ref.BusinessId, ref.Type, ref.Id).
		Delete(&ItemPriceHistory{}).Error; err != nil {
		return err
	}
	return refreshLastPurchaseCosts(tx, ref.BusinessId, itemIds)
}

// last purchase cost follows the newest non-reversed purchase line
func refreshLastPurchaseCosts(tx *gorm.DB, businessId string, itemIds []int) error {
	for _, itemId := range utils.UniqueSlice(itemIds) {
		var latest []ItemPriceHistory
		if err := tx.Where("business_id = ? AND item_id = ? AND reference_type = ? AND is_reversed = ?", businessId, itemId, DocumentTypePurchase, false).
			Order("history_date DESC, id DESC").Limit(1).Find(&latest).Error; err != nil {
			return err
		}
		cost := decimal.Zero
		if len(latest) > 0 {
			cost = latest[0].UnitCost
		}
		if err := tx.Model(&Item{}).Where("business_id = ? AND id = ?", businessId, itemId).
			UpdateColumn("last_purchase_cost", cost).Error; err != nil {
			return err
		}
	}
	return nil
}

func lineItemIds(lines []priceHistoryLine) []int {
	ids := make([]int, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemId)
	}
	return ids
}

func ListItemPriceHistory(ctx context.Context, itemId int) ([]ItemPriceHistory, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	var rows []ItemPriceHistory
	err = config.GetDB().WithContext(ctx).
		Where("business_id = ? AND item_id = ?", businessId, itemId).
		Order("id").Find(&rows).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return rows, nil
}
