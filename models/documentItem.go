package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentItem is a line of a purchase, purchase return or sale, linked
// polymorphically through (reference_type, reference_id).
type DocumentItem struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	ReferenceType string          `gorm:"size:8;not null;index:idx_document_items_ref,priority:1" json:"reference_type"`
	ReferenceID   int             `gorm:"not null;index:idx_document_items_ref,priority:2" json:"reference_id"`
	ItemId        int             `gorm:"index;not null" json:"item_id"`
	WarehouseId   int             `gorm:"not null;default:0" json:"warehouse_id"`
	Qty           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

type NewDocumentItem struct {
	ItemId      int             `json:"item_id" validate:"required,gt=0"`
	WarehouseId int             `json:"warehouse_id" validate:"gte=0"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func mapDocumentItems(businessId string, ref DocumentReference, inputs []NewDocumentItem) []DocumentItem {
	items := make([]DocumentItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, DocumentItem{
			BusinessId:    businessId,
			ReferenceType: string(ref.Type),
			ReferenceID:   ref.Id,
			ItemId:        in.ItemId,
			WarehouseId:   in.WarehouseId,
			Qty:           in.Qty,
			UnitPrice:     in.UnitPrice,
			Amount:        in.Qty.Mul(in.UnitPrice).Round(4),
		})
	}
	return items
}

func documentItemsScope(tx *gorm.DB, ref DocumentReference) *gorm.DB {
	return tx.Where("business_id = ? AND reference_type = ? AND reference_id = ?", ref.BusinessId, string(ref.Type), ref.Id)
}

// loadDocumentItems reads lines by reference, so it works whether or not
// the parent is soft-deleted.
func loadDocumentItems(tx *gorm.DB, ref DocumentReference) ([]DocumentItem, error) {
	var items []DocumentItem
	err := documentItemsScope(tx, ref).Order("id").Find(&items).Error
	return items, err
}

func softDeleteDocumentItems(tx *gorm.DB, ref DocumentReference) error {
	return documentItemsScope(tx, ref).Delete(&DocumentItem{}).Error
}

func restoreDocumentItems(tx *gorm.DB, ref DocumentReference) error {
	return documentItemsScope(tx.Unscoped().Model(&DocumentItem{}), ref).
		Where("deleted_at IS NOT NULL").
		Update("deleted_at", nil).Error
}

func purgeDocumentItems(tx *gorm.DB, ref DocumentReference) error {
	return documentItemsScope(tx.Unscoped(), ref).Delete(&DocumentItem{}).Error
}

// moveStock posts every line's quantity in dir.
func moveStock(tx *gorm.DB, businessId string, items []DocumentItem, dir direction) error {
	move := AddStock
	if dir == decrease {
		move = SubtractStock
	}
	for _, it := range items {
		if err := move(tx, businessId, it.ItemId, it.WarehouseId, it.Qty); err != nil {
			return err
		}
	}
	return nil
}

func priceHistoryLines(items []DocumentItem) []priceHistoryLine {
	lines := make([]priceHistoryLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, priceHistoryLine{
			DetailId:    it.ID,
			ItemId:      it.ItemId,
			WarehouseId: it.WarehouseId,
			Qty:         it.Qty,
			UnitCost:    it.UnitPrice,
		})
	}
	return lines
}
