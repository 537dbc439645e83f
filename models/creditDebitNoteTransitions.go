package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreditDebitNoteState struct {
	PartyType PartyType
	PartyId   int
	NoteType  NoteType
	AmountUsd decimal.Decimal
	Date      time.Time
}

func (s CreditDebitNoteState) party() LedgerRef {
	return LedgerRef{Kind: s.PartyType.ledgerKind(), Id: s.PartyId}
}

// credit notes reduce the party's balance, debit notes raise it
func noteDirection(t NoteType) direction {
	if t == NoteTypeCredit {
		return decrease
	}
	return increase
}

func CreditDebitNoteOnCreate(s CreditDebitNoteState) []Adjustment {
	return []Adjustment{adjust(s.party(), noteDirection(s.NoteType), s.AmountUsd, s.Date)}
}

// CreditDebitNoteOnUpdate applies the first matching rule only. A type
// change on the same party posts both legs with the new type's direction.
func CreditDebitNoteOnUpdate(old, new CreditDebitNoteState) []Adjustment {
	switch {
	case old.party() != new.party():
		return []Adjustment{
			adjust(old.party(), noteDirection(old.NoteType).flip(), old.AmountUsd, old.Date),
			adjust(new.party(), noteDirection(new.NoteType), new.AmountUsd, new.Date),
		}
	case old.NoteType != new.NoteType:
		dir := noteDirection(new.NoteType)
		return []Adjustment{
			adjust(new.party(), dir, old.AmountUsd, old.Date),
			adjust(new.party(), dir, new.AmountUsd, new.Date),
		}
	case !old.AmountUsd.Equal(new.AmountUsd):
		return []Adjustment{adjust(new.party(), noteDirection(new.NoteType), new.AmountUsd.Sub(old.AmountUsd), new.Date)}
	}
	return nil
}

func CreditDebitNoteOnDelete(old CreditDebitNoteState) []Adjustment {
	return reverseAdjustments(CreditDebitNoteOnCreate(old))
}

func CreditDebitNoteOnRestore(s CreditDebitNoteState) []Adjustment {
	return CreditDebitNoteOnCreate(s)
}
