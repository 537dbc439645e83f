package models

import (
	"context"

	"github.com/mmdatafocus/erp_backend/utils"
)

type CustomerPayment struct {
	Payment
	CustomerId int `gorm:"index;not null" json:"customer_id"`
}

var customerPaymentKind = paymentKind{
	module:  "CustomerPayment",
	docType: DocumentTypeCustomerPayment,
	rules:   CustomerPaymentRules,
}

func (cp CustomerPayment) reference() DocumentReference {
	return DocumentReference{BusinessId: cp.BusinessId, Type: DocumentTypeCustomerPayment, Id: cp.ID, Code: cp.Code}
}

func (cp CustomerPayment) paymentState() PaymentState { return cp.state(cp.CustomerId) }

func (cp *CustomerPayment) setPartyId(id int) { cp.CustomerId = id }

func CreateCustomerPayment(ctx context.Context, input *NewPayment) (*CustomerPayment, error) {
	return createPayment[CustomerPayment](ctx, customerPaymentKind, input)
}

func UpdateCustomerPayment(ctx context.Context, id int, input *NewPayment) (*CustomerPayment, error) {
	return updatePayment[CustomerPayment](ctx, customerPaymentKind, id, input)
}

func DeleteCustomerPayment(ctx context.Context, id int) (*CustomerPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return softDeleteDocument[CustomerPayment](ctx, businessId, id, paymentHooks[CustomerPayment](customerPaymentKind))
}

func RestoreCustomerPayment(ctx context.Context, id int) (*CustomerPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return restoreDocument[CustomerPayment](ctx, businessId, id, paymentHooks[CustomerPayment](customerPaymentKind))
}

func ForceDeleteCustomerPayment(ctx context.Context, id int) (*CustomerPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return forceDeleteDocument[CustomerPayment](ctx, businessId, id, paymentHooks[CustomerPayment](customerPaymentKind))
}

func GetCustomerPayment(ctx context.Context, id int) (*CustomerPayment, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[CustomerPayment](ctx, businessId, id)
}
