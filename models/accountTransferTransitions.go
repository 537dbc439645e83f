package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountTransferState struct {
	FromAccountId  int
	ToAccountId    int
	SentAmount     decimal.Decimal
	ReceivedAmount decimal.Decimal
	Date           time.Time
}

func (s AccountTransferState) sameLegs(o AccountTransferState) bool {
	return s.FromAccountId == o.FromAccountId &&
		s.ToAccountId == o.ToAccountId &&
		s.SentAmount.Equal(o.SentAmount) &&
		s.ReceivedAmount.Equal(o.ReceivedAmount)
}

func AccountTransferOnCreate(s AccountTransferState) []Adjustment {
	return []Adjustment{
		adjust(AccountLedger(s.FromAccountId), decrease, s.SentAmount, s.Date),
		adjust(AccountLedger(s.ToAccountId), increase, s.ReceivedAmount, s.Date),
	}
}

// AccountTransferOnUpdate reverses the old pair and posts the new one when
// any leg changed.
func AccountTransferOnUpdate(old, new AccountTransferState) []Adjustment {
	if old.sameLegs(new) {
		return nil
	}
	return append(reverseAdjustments(AccountTransferOnCreate(old)), AccountTransferOnCreate(new)...)
}

func AccountTransferOnDelete(old AccountTransferState) []Adjustment {
	return reverseAdjustments(AccountTransferOnCreate(old))
}

func AccountTransferOnRestore(s AccountTransferState) []Adjustment {
	return AccountTransferOnCreate(s)
}
