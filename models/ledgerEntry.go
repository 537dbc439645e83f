package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is the append-only audit row written for every applied
// adjustment. The sum of entries per ledger equals its running balance.
type LedgerEntry struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"size:64;not null;index:idx_le_ledger,priority:1;index:idx_le_ref,priority:1" json:"business_id"`
	LedgerKind    LedgerKind      `gorm:"size:16;not null;index:idx_le_ledger,priority:2" json:"ledger_kind"`
	LedgerId      int             `gorm:"not null;index:idx_le_ledger,priority:3" json:"ledger_id"`
	ReferenceType DocumentType    `gorm:"size:8;not null;index:idx_le_ref,priority:2" json:"reference_type"`
	ReferenceId   int             `gorm:"not null;index:idx_le_ref,priority:3" json:"reference_id"`
	ReferenceCode string          `gorm:"size:100" json:"reference_code"`
	Action        EntryAction     `gorm:"size:1;not null" json:"action"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	EntryDate     time.Time       `gorm:"not null" json:"entry_date"`
	CorrelationId string          `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// Ledger immutability guardrails: entries are never edited or removed.

func (e *LedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("immutable ledger: ledger_entries cannot be updated")
}

func (e *LedgerEntry) BeforeDelete(tx *gorm.DB) error {
	return errors.New("immutable ledger: ledger_entries cannot be deleted")
}

func recordLedgerEntry(tx *gorm.DB, ref DocumentReference, action EntryAction, adj Adjustment) error {
	entryDate := adj.Date
	if entryDate.IsZero() {
		entryDate = time.Now().UTC()
	}
	entry := LedgerEntry{
		BusinessId:    ref.BusinessId,
		LedgerKind:    adj.Ledger.Kind,
		LedgerId:      adj.Ledger.Id,
		ReferenceType: ref.Type,
		ReferenceId:   ref.Id,
		ReferenceCode: ref.Code,
		Action:        action,
		Amount:        adj.Amount,
		EntryDate:     entryDate,
		CorrelationId: correlationIdFromContextOrNew(tx.Statement.Context),
	}
	return tx.Create(&entry).Error
}

// SumLedgerEntries totals every entry recorded against ledger.
func SumLedgerEntries(tx *gorm.DB, businessId string, ledger LedgerRef) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&LedgerEntry{}).
		Where("business_id = ? AND ledger_kind = ? AND ledger_id = ?", businessId, ledger.Kind, ledger.Id).
		Select("SUM(amount)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// ListLedgerEntries returns a document's entries in the order they were written.
func ListLedgerEntries(tx *gorm.DB, businessId string, refType DocumentType, refId int) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := tx.Where("business_id = ? AND reference_type = ? AND reference_id = ?", businessId, refType, refId).
		Order("id").
		Find(&entries).Error
	return entries, err
}
