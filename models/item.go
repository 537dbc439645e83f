package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID               int             `gorm:"primary_key" json:"id"`
	BusinessId       string          `gorm:"index;not null" json:"business_id"`
	Name             string          `gorm:"size:100;not null" json:"name"`
	Sku              string          `gorm:"size:100;index" json:"sku"`
	LastPurchaseCost decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"last_purchase_cost"`
	IsActive         *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewItem struct {
	Name string `json:"name" validate:"required,max=100"`
	Sku  string `json:"sku" validate:"max=100"`
}

func (input *NewItem) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Sku != "" {
		return utils.ValidateUnique[Item](ctx, businessId, "sku", input.Sku, 0)
	}
	return nil
}

func CreateItem(ctx context.Context, input *NewItem) (*Item, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}
	item := Item{
		BusinessId: businessId,
		Name:       input.Name,
		Sku:        input.Sku,
	}
	if err := config.GetDB().WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetItem(ctx context.Context, id int) (*Item, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Item](ctx, businessId, id)
}
