package models

import (
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/shopspring/decimal"
)

// PaymentState is the slice of a payment the balance rules look at.
type PaymentState struct {
	Approved  bool
	AccountId int
	PartyId   int
	AmountUsd decimal.Decimal
	Date      time.Time
}

// PaymentRules describes which ledgers a payment touches and in which
// direction.
type PaymentRules struct {
	PartyKind  LedgerKind
	AccountDir direction
	PartyDir   direction
}

// CustomerPaymentRules: money comes into the account. The customer side
// follows CUSTOMER_PAYMENT_REDUCES_BALANCE.
func CustomerPaymentRules() PaymentRules {
	partyDir := increase
	if config.CustomerPaymentReducesBalance() {
		partyDir = decrease
	}
	return PaymentRules{PartyKind: LedgerKindCustomer, AccountDir: increase, PartyDir: partyDir}
}

// SupplierPaymentRules: money leaves the account and settles what we owe.
func SupplierPaymentRules() PaymentRules {
	return PaymentRules{PartyKind: LedgerKindSupplier, AccountDir: decrease, PartyDir: decrease}
}

func (r PaymentRules) accountSide(s PaymentState, amount decimal.Decimal) Adjustment {
	return adjust(AccountLedger(s.AccountId), r.AccountDir, amount, s.Date)
}

func (r PaymentRules) partySide(s PaymentState, amount decimal.Decimal) Adjustment {
	return adjust(LedgerRef{Kind: r.PartyKind, Id: s.PartyId}, r.PartyDir, amount, s.Date)
}

func (r PaymentRules) OnCreate(s PaymentState) []Adjustment {
	if !s.Approved {
		return nil
	}
	return []Adjustment{r.accountSide(s, s.AmountUsd), r.partySide(s, s.AmountUsd)}
}

// OnUpdate handles approval toggles first. For an approved payment each
// side is settled on its own: a reassigned ledger gives up the old amount
// and the new one takes the new amount, an unchanged ledger takes the
// difference. A single-field edit therefore touches only that field's side.
func (r PaymentRules) OnUpdate(old, new PaymentState) []Adjustment {
	switch {
	case !old.Approved && new.Approved:
		return r.OnCreate(new)
	case old.Approved && !new.Approved:
		return reverseAdjustments(r.OnCreate(old))
	case !old.Approved && !new.Approved:
		return nil
	}

	var adjs []Adjustment
	settle := func(changed bool, side func(PaymentState, decimal.Decimal) Adjustment) {
		if changed {
			adjs = append(adjs, side(old, old.AmountUsd.Neg()), side(new, new.AmountUsd))
			return
		}
		if delta := new.AmountUsd.Sub(old.AmountUsd); !delta.IsZero() {
			adjs = append(adjs, side(new, delta))
		}
	}
	settle(old.AccountId != new.AccountId, r.accountSide)
	settle(old.PartyId != new.PartyId, r.partySide)
	return adjs
}

func (r PaymentRules) OnDelete(old PaymentState) []Adjustment {
	return reverseAdjustments(r.OnCreate(old))
}

func (r PaymentRules) OnRestore(s PaymentState) []Adjustment {
	return r.OnCreate(s)
}
