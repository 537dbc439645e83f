package models

import (
	"context"

	"github.com/mmdatafocus/erp_backend/utils"
)

type SupplierPayment struct {
	Payment
	SupplierId int `gorm:"index;not null" json:"supplier_id"`
}

var supplierPaymentKind = paymentKind{
	module:  "SupplierPayment",
	docType: DocumentTypeSupplierPayment,
	rules:   SupplierPaymentRules,
}

func (sp SupplierPayment) reference() DocumentReference {
	return DocumentReference{BusinessId: sp.BusinessId, Type: DocumentTypeSupplierPayment, Id: sp.ID, Code: sp.Code}
}

func (sp SupplierPayment) paymentState() PaymentState { return sp.state(sp.SupplierId) }

func (sp *SupplierPayment) setPartyId(id int) { sp.SupplierId = id }

func CreateSupplierPayment(ctx context.Context, input *NewPayment) (*SupplierPayment, error) {
	return createPayment[SupplierPayment](ctx, supplierPaymentKind, input)
}

func UpdateSupplierPayment(ctx context.Context, id int, input *NewPayment) (*SupplierPayment, error) {
	return updatePayment[SupplierPayment](ctx, supplierPaymentKind, id, input)
}

func DeleteSupplierPayment(ctx context.Context, id int) (*SupplierPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return softDeleteDocument[SupplierPayment](ctx, businessId, id, paymentHooks[SupplierPayment](supplierPaymentKind))
}

func RestoreSupplierPayment(ctx context.Context, id int) (*SupplierPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return restoreDocument[SupplierPayment](ctx, businessId, id, paymentHooks[SupplierPayment](supplierPaymentKind))
}

func ForceDeleteSupplierPayment(ctx context.Context, id int) (*SupplierPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return forceDeleteDocument[SupplierPayment](ctx, businessId, id, paymentHooks[SupplierPayment](supplierPaymentKind))
}

func GetSupplierPayment(ctx context.Context, id int) (*SupplierPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[SupplierPayment](ctx, businessId, id)
}
