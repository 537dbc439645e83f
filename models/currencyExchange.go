package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const activeRateCacheLifespan = 10 * time.Minute

type CurrencyExchange struct {
	ID                int             `gorm:"primary_key" json:"id"`
	BusinessId        string          `gorm:"index;not null" json:"business_id"`
	ForeignCurrencyId int             `gorm:"index;not null" json:"foreign_currency_id"`
	ExchangeDate      time.Time       `gorm:"index;not null" json:"exchange_date"`
	ExchangeRate      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"exchange_rate"`
	Notes             string          `gorm:"size:255" json:"notes"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCurrencyExchange struct {
	ForeignCurrencyId int             `json:"foreign_currency_id" validate:"required,gt=0"`
	ExchangeDate      time.Time       `json:"exchange_date" validate:"required"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	Notes             string          `json:"notes" validate:"max=255"`
}

func (input *NewCurrencyExchange) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.ExchangeRate.IsPositive() {
		return utils.NewValidationError("exchange rate must be positive")
	}
	return nil
}

func CreateCurrencyExchange(ctx context.Context, input *NewCurrencyExchange) (*CurrencyExchange, error) {
	db := config.GetDB()
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	exchange := CurrencyExchange{
		BusinessId:        businessId,
		ForeignCurrencyId: input.ForeignCurrencyId,
		ExchangeDate:      input.ExchangeDate,
		ExchangeRate:      input.ExchangeRate,
		Notes:             input.Notes,
	}
	if err := db.WithContext(ctx).Create(&exchange).Error; err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(activeRateCacheKey(businessId, input.ForeignCurrencyId)); err != nil {
		config.LogError(config.GetLogger(), "CurrencyExchange", "CreateCurrencyExchange", "clearing rate cache", exchange.ID, err)
	}
	return &exchange, nil
}

func activeRateCacheKey(businessId string, currencyId int) string {
	return fmt.Sprintf("ActiveRate:%s:%d", businessId, currencyId)
}

// GetActiveRate returns the most recent exchange rate for currencyId, or 1
// when none is recorded (base currency included).
func GetActiveRate(ctx context.Context, currencyId int) (decimal.Decimal, error) {
	if currencyId <= 0 {
		return decimal.NewFromInt(1), nil
	}
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	cacheKey := activeRateCacheKey(businessId, currencyId)
	var cached decimal.Decimal
	if found, err := config.GetRedisObject(cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	var exchange CurrencyExchange
	err = config.GetDB().WithContext(ctx).
		Where("business_id = ? AND foreign_currency_id = ?", businessId, currencyId).
		Order("exchange_date DESC, id DESC").
		First(&exchange).Error
	rate := decimal.NewFromInt(1)
	if err == nil {
		rate = exchange.ExchangeRate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	if err := config.SetRedisObject(cacheKey, rate, activeRateCacheLifespan); err != nil {
		config.LogError(config.GetLogger(), "CurrencyExchange", "GetActiveRate", "caching rate", currencyId, err)
	}
	return rate, nil
}

// ToBaseAmount converts a native amount at rate, rounded to storage scale.
func ToBaseAmount(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(4)
}

// resolveRate keeps an explicit positive rate, otherwise looks one up.
func resolveRate(ctx context.Context, currencyId int, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsPositive() {
		return rate, nil
	}
	if rate.IsNegative() {
		return decimal.Zero, utils.NewValidationError("currency rate cannot be negative")
	}
	return GetActiveRate(ctx, currencyId)
}
