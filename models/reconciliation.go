package models

import (
	"context"
	"errors"
	"sort"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerMismatch is a ledger whose stored balance no longer equals the sum
// of its ledger entries.
type LedgerMismatch struct {
	Ledger   LedgerRef       `json:"ledger"`
	Stored   decimal.Decimal `json:"stored"`
	EntrySum decimal.Decimal `json:"entry_sum"`
}

func (m LedgerMismatch) Difference() decimal.Decimal {
	return m.Stored.Sub(m.EntrySum)
}

type storedBalance struct {
	Id             int
	CurrentBalance decimal.Decimal
}

// ReconcileLedgers compares every ledger of a business with its entries.
// Soft-deleted ledgers are included.
func ReconcileLedgers(ctx context.Context, businessId string) ([]LedgerMismatch, error) {
	db := config.GetDB().WithContext(ctx)
	var mismatches []LedgerMismatch

	for kind, model := range map[LedgerKind]any{LedgerKindAccount: &Account{}, LedgerKindSupplier: &Supplier{}} {
		var rows []storedBalance
		if err := db.Unscoped().Model(model).Where("business_id = ?", businessId).
			Select("id, current_balance").Order("id").Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			ledger := LedgerRef{Kind: kind, Id: row.Id}
			sum, err := SumLedgerEntries(db, businessId, ledger)
			if err != nil {
				return nil, err
			}
			if !sum.Equal(row.CurrentBalance) {
				mismatches = append(mismatches, LedgerMismatch{Ledger: ledger, Stored: row.CurrentBalance, EntrySum: sum})
			}
		}
	}

	var customerIds []int
	if err := db.Unscoped().Model(&Customer{}).Where("business_id = ?", businessId).
		Order("id").Pluck("id", &customerIds).Error; err != nil {
		return nil, err
	}
	for _, id := range customerIds {
		ledger := CustomerLedger(id)
		stored, err := latestCustomerClosing(db, businessId, id)
		if err != nil {
			return nil, err
		}
		sum, err := SumLedgerEntries(db, businessId, ledger)
		if err != nil {
			return nil, err
		}
		if !sum.Equal(stored) {
			mismatches = append(mismatches, LedgerMismatch{Ledger: ledger, Stored: stored, EntrySum: sum})
		}
	}

	sort.Slice(mismatches, func(i, j int) bool {
		if mismatches[i].Ledger.Kind != mismatches[j].Ledger.Kind {
			return mismatches[i].Ledger.Kind < mismatches[j].Ledger.Kind
		}
		return mismatches[i].Ledger.Id < mismatches[j].Ledger.Id
	})
	return mismatches, nil
}

func latestCustomerClosing(db *gorm.DB, businessId string, customerId int) (decimal.Decimal, error) {
	var latest CustomerMonthlyBalance
	err := db.Where("business_id = ? AND customer_id = ?", businessId, customerId).
		Order("month DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return latest.ClosingBalance, nil
}

// RebuildStoredBalances resets the given ledgers to their entry sums. For
// customers the monthly rows are regenerated from entry dates.
func RebuildStoredBalances(ctx context.Context, businessId string, mismatches []LedgerMismatch) error {
	if len(mismatches) == 0 {
		return nil
	}
	return runInTransaction(ctx, "Reconciliation", "RebuildStoredBalances", mismatches, func(tx *gorm.DB) error {
		for _, m := range mismatches {
			var err error
			switch m.Ledger.Kind {
			case LedgerKindAccount:
				err = tx.Unscoped().Model(&Account{}).Where("business_id = ? AND id = ?", businessId, m.Ledger.Id).
					UpdateColumn("current_balance", m.EntrySum).Error
			case LedgerKindSupplier:
				err = tx.Unscoped().Model(&Supplier{}).Where("business_id = ? AND id = ?", businessId, m.Ledger.Id).
					UpdateColumn("current_balance", m.EntrySum).Error
			case LedgerKindCustomer:
				err = rebuildCustomerMonths(tx, businessId, m.Ledger.Id)
			default:
				err = utils.NewValidationError("unknown ledger kind %s", m.Ledger.Kind)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func rebuildCustomerMonths(tx *gorm.DB, businessId string, customerId int) error {
	var entries []LedgerEntry
	if err := tx.Where("business_id = ? AND ledger_kind = ? AND ledger_id = ?", businessId, LedgerKindCustomer, customerId).
		Order("entry_date, id").Find(&entries).Error; err != nil {
		return err
	}
	if err := tx.Where("business_id = ? AND customer_id = ?", businessId, customerId).
		Delete(&CustomerMonthlyBalance{}).Error; err != nil {
		return err
	}

	var rows []CustomerMonthlyBalance
	running := decimal.Zero
	for _, e := range entries {
		month := utils.MonthStart(e.EntryDate)
		running = running.Add(e.Amount)
		if n := len(rows); n > 0 && rows[n-1].Month.Equal(month) {
			rows[n-1].TransactionTotal = rows[n-1].TransactionTotal.Add(e.Amount)
			rows[n-1].ClosingBalance = running
			continue
		}
		rows = append(rows, CustomerMonthlyBalance{
			BusinessId:       businessId,
			CustomerId:       customerId,
			Month:            month,
			TransactionTotal: e.Amount,
			ClosingBalance:   running,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// ListBusinessIds returns every business that owns at least one ledger.
func ListBusinessIds(ctx context.Context) ([]string, error) {
	db := config.GetDB().WithContext(utils.SetSkipTenantScopeInContext(ctx, true))
	var ids []string
	for _, model := range []any{&Account{}, &Customer{}, &Supplier{}} {
		var found []string
		if err := db.Unscoped().Model(model).Distinct().Pluck("business_id", &found).Error; err != nil {
			return nil, err
		}
		ids = append(ids, found...)
	}
	ids = utils.UniqueSlice(ids)
	sort.Strings(ids)
	return ids, nil
}
