package models

import (
	"context"

	"github.com/mmdatafocus/erp_backend/utils"
)

type Purchase struct {
	ItemizedDocument
	SupplierId int            `gorm:"index;not null" json:"supplier_id"`
	Items      []DocumentItem `gorm:"polymorphic:Reference;polymorphicValue:PU" json:"items"`
}

var purchaseKind = itemizedKind{
	module:       "Purchase",
	docType:      DocumentTypePurchase,
	rules:        PurchaseRules,
	stockDir:     increase,
	priceHistory: true,
}

func (d Purchase) reference() DocumentReference {
	return DocumentReference{BusinessId: d.BusinessId, Type: DocumentTypePurchase, Id: d.ID, Code: d.Code}
}

func (d Purchase) counterpartyState() CounterpartyDocumentState { return d.state(d.SupplierId) }

func (d *Purchase) setPartyId(id int) { d.SupplierId = id }

func (d Purchase) lineItems() []DocumentItem { return d.Items }

func (d *Purchase) setLineItems(items []DocumentItem) { d.Items = items }

func CreatePurchase(ctx context.Context, input *NewPurchase) (*Purchase, error) {
	return createItemized[Purchase](ctx, purchaseKind, input)
}

func UpdatePurchase(ctx context.Context, id int, input *NewPurchase) (*Purchase, error) {
	return updateItemized[Purchase](ctx, purchaseKind, id, input)
}

func DeletePurchase(ctx context.Context, id int) (*Purchase, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return softDeleteDocument[Purchase](ctx, businessId, id, itemizedHooks[Purchase](purchaseKind))
}

func RestorePurchase(ctx context.Context, id int) (*Purchase, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return restoreDocument[Purchase](ctx, businessId, id, itemizedHooks[Purchase](purchaseKind))
}

func ForceDeletePurchase(ctx context.Context, id int) (*Purchase, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return forceDeleteDocument[Purchase](ctx, businessId, id, itemizedHooks[Purchase](purchaseKind))
}

func GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, businessId, id, "Items")
}
