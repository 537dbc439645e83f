package models_test

import (
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ruleDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// amounts flattens adjustments to ledger -> amount strings for easy comparison.
func amounts(adjs []models.Adjustment) []string {
	out := make([]string, 0, len(adjs))
	for _, a := range adjs {
		out = append(out, a.Ledger.String()+"="+a.Amount.String())
	}
	return out
}

func paymentState(approved bool, account, party int, amount string) models.PaymentState {
	return models.PaymentState{Approved: approved, AccountId: account, PartyId: party, AmountUsd: dec(amount), Date: ruleDate}
}

func TestCustomerPaymentRules(t *testing.T) {
	t.Setenv("CUSTOMER_PAYMENT_REDUCES_BALANCE", "")
	rules := models.CustomerPaymentRules()

	cases := []struct {
		name string
		old  models.PaymentState
		new  models.PaymentState
		want []string
	}{
		{"approve", paymentState(false, 1, 7, "100"), paymentState(true, 1, 7, "100"), []string{"Account#1=100", "Customer#7=100"}},
		{"unapprove", paymentState(true, 1, 7, "100"), paymentState(false, 1, 7, "100"), []string{"Account#1=-100", "Customer#7=-100"}},
		{"pending edit", paymentState(false, 1, 7, "100"), paymentState(false, 2, 8, "300"), []string{}},
		{"account change", paymentState(true, 1, 7, "100"), paymentState(true, 2, 7, "100"), []string{"Account#1=-100", "Account#2=100"}},
		{"account change with amount", paymentState(true, 1, 7, "100"), paymentState(true, 2, 7, "150"), []string{"Account#1=-100", "Account#2=150", "Customer#7=50"}},
		{"party change", paymentState(true, 1, 7, "100"), paymentState(true, 1, 8, "100"), []string{"Customer#7=-100", "Customer#8=100"}},
		{"party change with amount", paymentState(true, 1, 7, "100"), paymentState(true, 1, 8, "120"), []string{"Account#1=20", "Customer#7=-100", "Customer#8=120"}},
		{"both ledgers change", paymentState(true, 1, 7, "100"), paymentState(true, 2, 8, "100"), []string{"Account#1=-100", "Account#2=100", "Customer#7=-100", "Customer#8=100"}},
		{"amount delta", paymentState(true, 1, 7, "100"), paymentState(true, 1, 7, "150"), []string{"Account#1=50", "Customer#7=50"}},
		{"no change", paymentState(true, 1, 7, "100"), paymentState(true, 1, 7, "100"), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, amounts(rules.OnUpdate(tc.old, tc.new)))
		})
	}

	assert.Empty(t, rules.OnCreate(paymentState(false, 1, 7, "100")))
	assert.Equal(t, []string{"Account#1=-100", "Customer#7=-100"}, amounts(rules.OnDelete(paymentState(true, 1, 7, "100"))))
	assert.Empty(t, rules.OnDelete(paymentState(false, 1, 7, "100")))
	assert.Equal(t, []string{"Account#1=100", "Customer#7=100"}, amounts(rules.OnRestore(paymentState(true, 1, 7, "100"))))
}

func TestCustomerPaymentRules_ReducesBalanceFlag(t *testing.T) {
	t.Setenv("CUSTOMER_PAYMENT_REDUCES_BALANCE", "true")
	got := models.CustomerPaymentRules().OnCreate(paymentState(true, 1, 7, "100"))
	assert.Equal(t, []string{"Account#1=100", "Customer#7=-100"}, amounts(got))
}

func TestSupplierPaymentRules(t *testing.T) {
	rules := models.SupplierPaymentRules()
	assert.Equal(t, []string{"Account#3=-200", "Supplier#9=-200"}, amounts(rules.OnCreate(paymentState(true, 3, 9, "200"))))
	assert.Equal(t, []string{"Account#3=-50", "Supplier#9=-50"}, amounts(rules.OnUpdate(paymentState(true, 3, 9, "200"), paymentState(true, 3, 9, "250"))))
	assert.Equal(t, []string{"Account#3=200", "Supplier#9=200"}, amounts(rules.OnDelete(paymentState(true, 3, 9, "200"))))
}

func counterpartyState(approved bool, party int, total string) models.CounterpartyDocumentState {
	return models.CounterpartyDocumentState{Approved: approved, PartyId: party, TotalUsd: dec(total), Date: ruleDate}
}

func TestCounterpartyRules(t *testing.T) {
	t.Run("purchase", func(t *testing.T) {
		r := models.PurchaseRules
		assert.Equal(t, []string{"Supplier#4=500"}, amounts(r.OnCreate(counterpartyState(true, 4, "500"))))
		assert.Empty(t, r.OnCreate(counterpartyState(false, 4, "500")))
		assert.Equal(t, []string{"Supplier#4=-200"}, amounts(r.OnUpdate(counterpartyState(true, 4, "500"), counterpartyState(true, 4, "300"))))
		assert.Equal(t, []string{"Supplier#4=-500", "Supplier#5=300"}, amounts(r.OnUpdate(counterpartyState(true, 4, "500"), counterpartyState(true, 5, "300"))))
		assert.Equal(t, []string{"Supplier#4=-500"}, amounts(r.OnDelete(counterpartyState(true, 4, "500"))))
	})
	t.Run("purchase return", func(t *testing.T) {
		r := models.PurchaseReturnRules
		assert.Equal(t, []string{"Supplier#4=-200"}, amounts(r.OnCreate(counterpartyState(true, 4, "200"))))
		assert.Equal(t, []string{"Supplier#4=200"}, amounts(r.OnDelete(counterpartyState(true, 4, "200"))))
		assert.Equal(t, []string{"Supplier#4=-200"}, amounts(r.OnRestore(counterpartyState(true, 4, "200"))))
		assert.Equal(t, []string{"Supplier#4=200"}, amounts(r.OnUpdate(counterpartyState(true, 4, "200"), counterpartyState(false, 4, "200"))))
	})
	t.Run("sale", func(t *testing.T) {
		r := models.SaleRules
		assert.Equal(t, []string{"Customer#2=80"}, amounts(r.OnCreate(counterpartyState(true, 2, "80"))))
		assert.Equal(t, []string{"Customer#2=20"}, amounts(r.OnUpdate(counterpartyState(true, 2, "80"), counterpartyState(true, 2, "100"))))
		assert.Empty(t, r.OnUpdate(counterpartyState(false, 2, "80"), counterpartyState(false, 3, "100")))
	})
}

func noteState(party models.PartyType, id int, note models.NoteType, amount string) models.CreditDebitNoteState {
	return models.CreditDebitNoteState{PartyType: party, PartyId: id, NoteType: note, AmountUsd: dec(amount), Date: ruleDate}
}

func TestCreditDebitNoteRules(t *testing.T) {
	credit := noteState(models.PartyTypeCustomer, 1, models.NoteTypeCredit, "40")
	debit := noteState(models.PartyTypeSupplier, 2, models.NoteTypeDebit, "60")

	assert.Equal(t, []string{"Customer#1=-40"}, amounts(models.CreditDebitNoteOnCreate(credit)))
	assert.Equal(t, []string{"Supplier#2=60"}, amounts(models.CreditDebitNoteOnCreate(debit)))
	assert.Equal(t, []string{"Customer#1=40"}, amounts(models.CreditDebitNoteOnDelete(credit)))
	assert.Equal(t, []string{"Customer#1=-40"}, amounts(models.CreditDebitNoteOnRestore(credit)))

	t.Run("party change", func(t *testing.T) {
		got := models.CreditDebitNoteOnUpdate(credit, debit)
		assert.Equal(t, []string{"Customer#1=40", "Supplier#2=60"}, amounts(got))
	})
	t.Run("type change posts both legs in the new direction", func(t *testing.T) {
		toDebit := noteState(models.PartyTypeCustomer, 1, models.NoteTypeDebit, "50")
		got := models.CreditDebitNoteOnUpdate(credit, toDebit)
		assert.Equal(t, []string{"Customer#1=40", "Customer#1=50"}, amounts(got))
	})
	t.Run("amount change", func(t *testing.T) {
		got := models.CreditDebitNoteOnUpdate(credit, noteState(models.PartyTypeCustomer, 1, models.NoteTypeCredit, "25"))
		assert.Equal(t, []string{"Customer#1=15"}, amounts(got))
	})
	t.Run("unchanged", func(t *testing.T) {
		assert.Empty(t, models.CreditDebitNoteOnUpdate(credit, credit))
	})
}

func TestAccountTransferRules(t *testing.T) {
	s := models.AccountTransferState{FromAccountId: 1, ToAccountId: 2, SentAmount: dec("100"), ReceivedAmount: dec("98"), Date: ruleDate}

	assert.Equal(t, []string{"Account#1=-100", "Account#2=98"}, amounts(models.AccountTransferOnCreate(s)))
	assert.Equal(t, []string{"Account#1=100", "Account#2=-98"}, amounts(models.AccountTransferOnDelete(s)))
	assert.Empty(t, models.AccountTransferOnUpdate(s, s))

	changed := s
	changed.ToAccountId = 3
	got := models.AccountTransferOnUpdate(s, changed)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"Account#1=100", "Account#2=-98", "Account#1=-100", "Account#3=98"}, amounts(got))
}
