package models

import (
	"context"

	"github.com/mmdatafocus/erp_backend/utils"
)

type PurchaseReturn struct {
	ItemizedDocument
	SupplierId int            `gorm:"index;not null" json:"supplier_id"`
	Items      []DocumentItem `gorm:"polymorphic:Reference;polymorphicValue:PR" json:"items"`
}

var purchaseReturnKind = itemizedKind{
	module:       "PurchaseReturn",
	docType:      DocumentTypePurchaseReturn,
	rules:        PurchaseReturnRules,
	stockDir:     decrease,
	priceHistory: true,
}

func (d PurchaseReturn) reference() DocumentReference {
	return DocumentReference{BusinessId: d.BusinessId, Type: DocumentTypePurchaseReturn, Id: d.ID, Code: d.Code}
}

func (d PurchaseReturn) counterpartyState() CounterpartyDocumentState { return d.state(d.SupplierId) }

func (d *PurchaseReturn) setPartyId(id int) { d.SupplierId = id }

func (d PurchaseReturn) lineItems() []DocumentItem { return d.Items }

func (d *PurchaseReturn) setLineItems(items []DocumentItem) { d.Items = items }

func CreatePurchaseReturn(ctx context.Context, input *NewPurchaseReturn) (*PurchaseReturn, error) {
	return createItemized[PurchaseReturn](ctx, purchaseReturnKind, input)
}

func UpdatePurchaseReturn(ctx context.Context, id int, input *NewPurchaseReturn) (*PurchaseReturn, error) {
	return updateItemized[PurchaseReturn](ctx, purchaseReturnKind, id, input)
}

func DeletePurchaseReturn(ctx context.Context, id int) (*PurchaseReturn, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return softDeleteDocument[PurchaseReturn](ctx, businessId, id, itemizedHooks[PurchaseReturn](purchaseReturnKind))
}

func RestorePurchaseReturn(ctx context.Context, id int) (*PurchaseReturn, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return restoreDocument[PurchaseReturn](ctx, businessId, id, itemizedHooks[PurchaseReturn](purchaseReturnKind))
}

func ForceDeletePurchaseReturn(ctx context.Context, id int) (*PurchaseReturn, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return forceDeleteDocument[PurchaseReturn](ctx, businessId, id, itemizedHooks[PurchaseReturn](purchaseReturnKind))
}

func GetPurchaseReturn(ctx context.Context, id int) (*PurchaseReturn, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[PurchaseReturn](ctx, businessId, id, "Items")
}
