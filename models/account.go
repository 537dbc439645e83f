package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Account struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	Name           string          `gorm:"index;size:100;not null" json:"name"`
	Code           string          `gorm:"size:100" json:"code"`
	CurrencyId     int             `gorm:"index" json:"currency_id"`
	Description    string          `gorm:"type:text" json:"description"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"current_balance"`
	IsActive       *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

type NewAccount struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Code           string          `json:"code" validate:"max=100"`
	CurrencyId     int             `json:"currency_id" validate:"gte=0"`
	Description    string          `json:"description"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (input *NewAccount) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Account](ctx, businessId, "name", input.Name, 0); err != nil {
		return err
	}
	if input.Code != "" {
		if err := utils.ValidateUnique[Account](ctx, businessId, "code", input.Code, 0); err != nil {
			return err
		}
	}
	return nil
}

// CreateAccount creates a ledger account. A non-zero opening balance is
// posted as a setup adjustment so the entry trail stays complete.
func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	account := Account{
		BusinessId:  businessId,
		Name:        input.Name,
		Code:        input.Code,
		CurrencyId:  input.CurrencyId,
		Description: input.Description,
	}
	err = runInTransaction(ctx, "Account", "CreateAccount", input, func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		ref := DocumentReference{BusinessId: businessId, Type: DocumentTypeSetup, Id: account.ID, Code: account.Code}
		return AddBalance(tx, ref, EntryActionCreate, AccountLedger(account.ID), input.OpeningBalance, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	account.CurrentBalance = input.OpeningBalance
	return &account, nil
}

func GetAccount(ctx context.Context, id int) (*Account, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Account](ctx, businessId, id)
}

// GetAccountBalance reads the stored running balance.
func GetAccountBalance(ctx context.Context, id int) (decimal.Decimal, error) {
	account, err := GetAccount(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return account.CurrentBalance, nil
}
