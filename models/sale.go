package models

import (
	"context"

	"github.com/mmdatafocus/erp_backend/utils"
)

type Sale struct {
	ItemizedDocument
	CustomerId int            `gorm:"index;not null" json:"customer_id"`
	Items      []DocumentItem `gorm:"polymorphic:Reference;polymorphicValue:SL" json:"items"`
}

var saleKind = itemizedKind{
	module:       "Sale",
	docType:      DocumentTypeSale,
	rules:        SaleRules,
	stockDir:     decrease,
	priceHistory: false,
}

func (d Sale) reference() DocumentReference {
	return DocumentReference{BusinessId: d.BusinessId, Type: DocumentTypeSale, Id: d.ID, Code: d.Code}
}

func (d Sale) counterpartyState() CounterpartyDocumentState { return d.state(d.CustomerId) }

func (d *Sale) setPartyId(id int) { d.CustomerId = id }

func (d Sale) lineItems() []DocumentItem { return d.Items }

func (d *Sale) setLineItems(items []DocumentItem) { d.Items = items }

func CreateSale(ctx context.Context, input *NewSale) (*Sale, error) {
	return createItemized[Sale](ctx, saleKind, input)
}

func UpdateSale(ctx context.Context, id int, input *NewSale) (*Sale, error) {
	return updateItemized[Sale](ctx, saleKind, id, input)
}

func DeleteSale(ctx context.Context, id int) (*Sale, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return softDeleteDocument[Sale](ctx, businessId, id, itemizedHooks[Sale](saleKind))
}

func RestoreSale(ctx context.Context, id int) (*Sale, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return restoreDocument[Sale](ctx, businessId, id, itemizedHooks[Sale](saleKind))
}

func ForceDeleteSale(ctx context.Context, id int) (*Sale, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return forceDeleteDocument[Sale](ctx, businessId, id, itemizedHooks[Sale](saleKind))
}

func GetSale(ctx context.Context, id int) (*Sale, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, businessId, id, "Items")
}
