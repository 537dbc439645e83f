package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerMonthlyBalance keeps one row per customer per month that saw
// activity. ClosingBalance of a month includes every earlier month.
type CustomerMonthlyBalance struct {
	ID               int             `gorm:"primary_key" json:"id"`
	BusinessId       string          `gorm:"size:64;not null;uniqueIndex:idx_cmb_customer_month,priority:1" json:"business_id"`
	CustomerId       int             `gorm:"not null;uniqueIndex:idx_cmb_customer_month,priority:2" json:"customer_id"`
	Month            time.Time       `gorm:"not null;uniqueIndex:idx_cmb_customer_month,priority:3" json:"month"`
	TransactionTotal decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"transaction_total"`
	ClosingBalance   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"closing_balance"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// incrementCustomerBalance adds amount to the month of date and carries it
// into every later closing balance.
func incrementCustomerBalance(tx *gorm.DB, businessId string, customerId int, amount decimal.Decimal, date time.Time) (bool, error) {
	var count int64
	if err := tx.Model(&Customer{}).Where("business_id = ? AND id = ?", businessId, customerId).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	if date.IsZero() {
		date = time.Now()
	}
	month := utils.MonthStart(date)

	if err := ensureCustomerMonth(tx, businessId, customerId, month); err != nil {
		return false, err
	}
	delta := gorm.Expr("transaction_total + CAST(? AS DECIMAL(20,4))", amount)
	if err := tx.Model(&CustomerMonthlyBalance{}).
		Where("business_id = ? AND customer_id = ? AND month = ?", businessId, customerId, month).
		UpdateColumn("transaction_total", delta).Error; err != nil {
		return false, err
	}
	carry := gorm.Expr("closing_balance + CAST(? AS DECIMAL(20,4))", amount)
	if err := tx.Model(&CustomerMonthlyBalance{}).
		Where("business_id = ? AND customer_id = ? AND month >= ?", businessId, customerId, month).
		UpdateColumn("closing_balance", carry).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ensureCustomerMonth creates the month row, opening at the previous
// month's closing balance.
func ensureCustomerMonth(tx *gorm.DB, businessId string, customerId int, month time.Time) error {
	var existing []CustomerMonthlyBalance
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND customer_id = ? AND month = ?", businessId, customerId, month).
		Limit(1).Find(&existing).Error; err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	var previous []CustomerMonthlyBalance
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND customer_id = ? AND month < ?", businessId, customerId, month).
		Order("month DESC").Limit(1).Find(&previous).Error; err != nil {
		return err
	}
	row := CustomerMonthlyBalance{
		BusinessId:       businessId,
		CustomerId:       customerId,
		Month:            month,
		TransactionTotal: decimal.Zero,
	}
	if len(previous) > 0 {
		row.ClosingBalance = previous[0].ClosingBalance
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// GetCustomerBalance is the latest closing balance before the current
// month plus the current month's transaction total. Later-dated months are
// not counted until they arrive. A negative closing balance is carried like
// any other so the read always equals the customer's ledger entries.
func GetCustomerBalance(ctx context.Context, customerId int) (decimal.Decimal, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err := utils.ValidateResourceId[Customer](ctx, businessId, customerId); err != nil {
		return decimal.Zero, err
	}
	return customerBalanceAt(config.GetDB().WithContext(ctx), businessId, customerId, time.Now())
}

func customerBalanceAt(db *gorm.DB, businessId string, customerId int, at time.Time) (decimal.Decimal, error) {
	month := utils.MonthStart(at)

	var previous CustomerMonthlyBalance
	err := db.Where("business_id = ? AND customer_id = ? AND month < ?", businessId, customerId, month).
		Order("month DESC").First(&previous).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	var current CustomerMonthlyBalance
	err = db.Where("business_id = ? AND customer_id = ? AND month = ?", businessId, customerId, month).
		First(&current).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}
	return previous.ClosingBalance.Add(current.TransactionTotal), nil
}
