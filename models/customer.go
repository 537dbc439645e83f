package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer carries no stored balance; see CustomerMonthlyBalance.
type Customer struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index;not null" json:"business_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Email       string          `gorm:"size:100" json:"email"`
	Phone       string          `gorm:"size:20" json:"phone"`
	CurrencyId  int             `gorm:"index" json:"currency_id"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_limit"`
	Notes       string          `gorm:"type:text" json:"notes"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Email          string          `json:"email" validate:"omitempty,email,max=100"`
	Phone          string          `json:"phone"`
	CurrencyId     int             `json:"currency_id" validate:"gte=0"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Notes          string          `json:"notes"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (input *NewCustomer) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.CreditLimit.IsNegative() {
		return utils.NewValidationError("credit limit cannot be negative")
	}
	if input.Phone != "" {
		phone, err := utils.NormalizePhoneNumber(input.Phone)
		if err != nil {
			return err
		}
		input.Phone = phone
	}
	return utils.ValidateUnique[Customer](ctx, businessId, "name", input.Name, 0)
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	customer := Customer{
		BusinessId:  businessId,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		CurrencyId:  input.CurrencyId,
		CreditLimit: input.CreditLimit,
		Notes:       input.Notes,
	}
	err = runInTransaction(ctx, "Customer", "CreateCustomer", input, func(tx *gorm.DB) error {
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		ref := DocumentReference{BusinessId: businessId, Type: DocumentTypeSetup, Id: customer.ID}
		return AddBalance(tx, ref, EntryActionCreate, CustomerLedger(customer.ID), input.OpeningBalance, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Customer](ctx, businessId, id)
}
