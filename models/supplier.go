package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier balance: positive means we owe the supplier.
type Supplier struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Email          string          `gorm:"size:100" json:"email"`
	Phone          string          `gorm:"size:20" json:"phone"`
	CurrencyId     int             `gorm:"index" json:"currency_id"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"current_balance"`
	IsActive       *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Email          string          `json:"email" validate:"omitempty,email,max=100"`
	Phone          string          `json:"phone"`
	CurrencyId     int             `json:"currency_id" validate:"gte=0"`
	Notes          string          `json:"notes"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (input *NewSupplier) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Phone != "" {
		phone, err := utils.NormalizePhoneNumber(input.Phone)
		if err != nil {
			return err
		}
		input.Phone = phone
	}
	return utils.ValidateUnique[Supplier](ctx, businessId, "name", input.Name, 0)
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	supplier := Supplier{
		BusinessId: businessId,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		CurrencyId: input.CurrencyId,
		Notes:      input.Notes,
	}
	err = runInTransaction(ctx, "Supplier", "CreateSupplier", input, func(tx *gorm.DB) error {
		if err := tx.Create(&supplier).Error; err != nil {
			return err
		}
		ref := DocumentReference{BusinessId: businessId, Type: DocumentTypeSetup, Id: supplier.ID}
		return AddBalance(tx, ref, EntryActionCreate, SupplierLedger(supplier.ID), input.OpeningBalance, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	supplier.CurrentBalance = input.OpeningBalance
	return &supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Supplier](ctx, businessId, id)
}

func GetSupplierBalance(ctx context.Context, id int) (decimal.Decimal, error) {
	supplier, err := GetSupplier(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return supplier.CurrentBalance, nil
}
