package models

import (
	"fmt"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LedgerRef identifies one balance-bearing row.
type LedgerRef struct {
	Kind LedgerKind `json:"kind"`
	Id   int        `json:"id"`
}

func AccountLedger(id int) LedgerRef  { return LedgerRef{Kind: LedgerKindAccount, Id: id} }
func CustomerLedger(id int) LedgerRef { return LedgerRef{Kind: LedgerKindCustomer, Id: id} }
func SupplierLedger(id int) LedgerRef { return LedgerRef{Kind: LedgerKindSupplier, Id: id} }

func (r LedgerRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.Id)
}

// Adjustment is a signed change to one ledger. Date decides which customer
// month the change lands in; it is ignored for stored-balance ledgers.
type Adjustment struct {
	Ledger LedgerRef       `json:"ledger"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// DocumentReference ties applied adjustments back to the document that
// produced them.
type DocumentReference struct {
	BusinessId string
	Type       DocumentType
	Id         int
	Code       string
}

func (r DocumentReference) String() string {
	return fmt.Sprintf("%s %d (%s)", r.Type, r.Id, r.Code)
}

type direction int

const (
	increase direction = 1
	decrease direction = -1
)

func (d direction) of(amount decimal.Decimal) decimal.Decimal {
	if d == decrease {
		return amount.Neg()
	}
	return amount
}

func (d direction) flip() direction {
	return -d
}

func adjust(ledger LedgerRef, d direction, amount decimal.Decimal, date time.Time) Adjustment {
	return Adjustment{Ledger: ledger, Amount: d.of(amount), Date: date}
}

// reverseAdjustments negates every amount, preserving order.
func reverseAdjustments(adjustments []Adjustment) []Adjustment {
	if len(adjustments) == 0 {
		return nil
	}
	reversed := make([]Adjustment, len(adjustments))
	for i, a := range adjustments {
		reversed[i] = Adjustment{Ledger: a.Ledger, Amount: a.Amount.Neg(), Date: a.Date}
	}
	return reversed
}

// AddBalance increases a ledger's balance inside tx.
func AddBalance(tx *gorm.DB, ref DocumentReference, action EntryAction, ledger LedgerRef, amount decimal.Decimal, date time.Time) error {
	return ApplyAdjustments(tx, ref, action, []Adjustment{adjust(ledger, increase, amount, date)})
}

// RemoveBalance decreases a ledger's balance inside tx.
func RemoveBalance(tx *gorm.DB, ref DocumentReference, action EntryAction, ledger LedgerRef, amount decimal.Decimal, date time.Time) error {
	return ApplyAdjustments(tx, ref, action, []Adjustment{adjust(ledger, decrease, amount, date)})
}

// ApplyAdjustments persists each adjustment with an atomic increment and
// records a ledger entry for it. Adjustments against a ledger that no
// longer exists are skipped without error.
func ApplyAdjustments(tx *gorm.DB, ref DocumentReference, action EntryAction, adjustments []Adjustment) error {
	for _, adj := range adjustments {
		if adj.Amount.IsZero() {
			continue
		}
		applied, err := applyAdjustment(tx, ref.BusinessId, adj)
		if err != nil {
			return fmt.Errorf("adjust %s for %s: %w", adj.Ledger, ref, err)
		}
		if !applied {
			config.GetLogger().WithFields(logrus.Fields{
				"module":   "LedgerAdjustment",
				"funcName": "ApplyAdjustments",
				"ledger":   adj.Ledger.String(),
				"document": ref.String(),
			}).Warn("ledger not found, adjustment skipped")
			continue
		}
		if err := recordLedgerEntry(tx, ref, action, adj); err != nil {
			return fmt.Errorf("record entry %s for %s: %w", adj.Ledger, ref, err)
		}
	}
	return nil
}

func applyAdjustment(tx *gorm.DB, businessId string, adj Adjustment) (bool, error) {
	switch adj.Ledger.Kind {
	case LedgerKindAccount:
		return incrementStoredBalance(tx, &Account{}, businessId, adj.Ledger.Id, adj.Amount)
	case LedgerKindSupplier:
		return incrementStoredBalance(tx, &Supplier{}, businessId, adj.Ledger.Id, adj.Amount)
	case LedgerKindCustomer:
		return incrementCustomerBalance(tx, businessId, adj.Ledger.Id, adj.Amount, adj.Date)
	}
	return false, utils.NewValidationError("unknown ledger kind %q", adj.Ledger.Kind)
}

// soft-deleted ledgers still take adjustments; only a missing row is skipped
func incrementStoredBalance(tx *gorm.DB, model any, businessId string, id int, amount decimal.Decimal) (bool, error) {
	res := tx.Unscoped().Model(model).
		Where("business_id = ? AND id = ?", businessId, id).
		UpdateColumn("current_balance", gorm.Expr("current_balance + CAST(? AS DECIMAL(20,4))", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
