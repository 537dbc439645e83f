package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CounterpartyDocumentState covers documents that move a single
// counterparty ledger: purchases, purchase returns and sales.
type CounterpartyDocumentState struct {
	Approved bool
	PartyId  int
	TotalUsd decimal.Decimal
	Date     time.Time
}

type CounterpartyRules struct {
	PartyKind LedgerKind
	Dir       direction
}

var (
	PurchaseRules       = CounterpartyRules{PartyKind: LedgerKindSupplier, Dir: increase}
	PurchaseReturnRules = CounterpartyRules{PartyKind: LedgerKindSupplier, Dir: decrease}
	SaleRules           = CounterpartyRules{PartyKind: LedgerKindCustomer, Dir: increase}
)

func (r CounterpartyRules) side(s CounterpartyDocumentState, amount decimal.Decimal) Adjustment {
	return adjust(LedgerRef{Kind: r.PartyKind, Id: s.PartyId}, r.Dir, amount, s.Date)
}

func (r CounterpartyRules) OnCreate(s CounterpartyDocumentState) []Adjustment {
	if !s.Approved {
		return nil
	}
	return []Adjustment{r.side(s, s.TotalUsd)}
}

// OnUpdate applies the first matching rule only.
func (r CounterpartyRules) OnUpdate(old, new CounterpartyDocumentState) []Adjustment {
	switch {
	case !old.Approved && new.Approved:
		return r.OnCreate(new)
	case old.Approved && !new.Approved:
		return reverseAdjustments(r.OnCreate(old))
	case !old.Approved && !new.Approved:
		return nil
	case old.PartyId != new.PartyId:
		return []Adjustment{r.side(old, old.TotalUsd.Neg()), r.side(new, new.TotalUsd)}
	case !old.TotalUsd.Equal(new.TotalUsd):
		return []Adjustment{r.side(new, new.TotalUsd.Sub(old.TotalUsd))}
	}
	return nil
}

func (r CounterpartyRules) OnDelete(old CounterpartyDocumentState) []Adjustment {
	return reverseAdjustments(r.OnCreate(old))
}

func (r CounterpartyRules) OnRestore(s CounterpartyDocumentState) []Adjustment {
	return r.OnCreate(s)
}
