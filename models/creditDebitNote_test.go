package models_test

import (
	"testing"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *ledgerFixture) note(party models.PartyType, partyId int, noteType models.NoteType, amount string) *models.NewCreditDebitNote {
	return &models.NewCreditDebitNote{
		PartyType: party,
		PartyId:   partyId,
		NoteType:  noteType,
		NoteDate:  ruleDate,
		Amount:    dec(amount),
	}
}

func TestCreditDebitNote_Lifecycle(t *testing.T) {
	f := newLedgerFixture(t)

	note, err := models.CreateCreditDebitNote(f.ctx, f.note(models.PartyTypeSupplier, f.supplier.ID, models.NoteTypeDebit, "60"))
	require.NoError(t, err)
	assert.Equal(t, "NT-000001", note.Code)
	requireAmount(t, "60", f.supplierBalance(t))

	_, err = models.UpdateCreditDebitNote(f.ctx, note.ID, f.note(models.PartyTypeSupplier, f.supplier.ID, models.NoteTypeDebit, "90"))
	require.NoError(t, err)
	requireAmount(t, "90", f.supplierBalance(t))

	_, err = models.DeleteCreditDebitNote(f.ctx, note.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.supplierBalance(t))

	_, err = models.RestoreCreditDebitNote(f.ctx, note.ID)
	require.NoError(t, err)
	requireAmount(t, "90", f.supplierBalance(t))
	f.requireConsistent(t)
}

func TestCreditDebitNote_RestoreWithoutReapply(t *testing.T) {
	t.Setenv("RESTORE_REAPPLIES_BALANCE", "false")
	f := newLedgerFixture(t)

	note, err := models.CreateCreditDebitNote(f.ctx, f.note(models.PartyTypeSupplier, f.supplier.ID, models.NoteTypeDebit, "60"))
	require.NoError(t, err)
	_, err = models.DeleteCreditDebitNote(f.ctx, note.ID)
	require.NoError(t, err)
	_, err = models.RestoreCreditDebitNote(f.ctx, note.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.supplierBalance(t))

	_, err = models.UpdateCreditDebitNote(f.ctx, note.ID, f.note(models.PartyTypeSupplier, f.supplier.ID, models.NoteTypeDebit, "80"))
	require.NoError(t, err)
	_, err = models.DeleteCreditDebitNote(f.ctx, note.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.supplierBalance(t))

	transfer, err := models.CreateAccountTransfer(f.ctx, f.transfer(f.cash.ID, f.bank.ID, "100"))
	require.NoError(t, err)
	_, err = models.DeleteAccountTransfer(f.ctx, transfer.ID)
	require.NoError(t, err)
	_, err = models.RestoreAccountTransfer(f.ctx, transfer.ID)
	require.NoError(t, err)
	_, err = models.DeleteAccountTransfer(f.ctx, transfer.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", f.accountBalance(t, f.bank.ID))
	f.requireConsistent(t)
}

func TestCreditDebitNote_PartySwitch(t *testing.T) {
	f := newLedgerFixture(t)

	note, err := models.CreateCreditDebitNote(f.ctx, f.note(models.PartyTypeSupplier, f.supplier.ID, models.NoteTypeCredit, "20"))
	require.NoError(t, err)
	requireAmount(t, "-20", f.supplierBalance(t))

	_, err = models.UpdateCreditDebitNote(f.ctx, note.ID, f.note(models.PartyTypeCustomer, f.customer.ID, models.NoteTypeCredit, "20"))
	require.NoError(t, err)
	requireAmount(t, "0", f.supplierBalance(t))
	f.requireConsistent(t)

	sum, err := models.SumLedgerEntries(f.db, f.businessId, models.CustomerLedger(f.customer.ID))
	require.NoError(t, err)
	requireAmount(t, "-20", sum)
}

func TestCreditDebitNote_Validation(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := models.CreateCreditDebitNote(f.ctx, f.note("Vendor", f.supplier.ID, models.NoteTypeCredit, "20"))
	require.True(t, utils.IsValidationError(err))

	_, err = models.CreateCreditDebitNote(f.ctx, f.note(models.PartyTypeCustomer, 9999, models.NoteTypeCredit, "20"))
	require.True(t, utils.IsValidationError(err))

	_, err = models.CreateCreditDebitNote(f.ctx, f.note(models.PartyTypeCustomer, f.customer.ID, models.NoteTypeCredit, "-1"))
	require.True(t, utils.IsValidationError(err))
}

func (f *ledgerFixture) transfer(from, to int, sent string) *models.NewAccountTransfer {
	return &models.NewAccountTransfer{
		FromAccountId: from,
		ToAccountId:   to,
		TransferDate:  ruleDate,
		SentAmount:    dec(sent),
	}
}

func TestAccountTransfer_Lifecycle(t *testing.T) {
	f := newLedgerFixture(t)

	transfer, err := models.CreateAccountTransfer(f.ctx, f.transfer(f.cash.ID, f.bank.ID, "100"))
	require.NoError(t, err)
	assert.Equal(t, "AT-000001", transfer.Code)
	requireAmount(t, "100", transfer.ReceivedAmount)
	requireAmount(t, "-100", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "100", f.accountBalance(t, f.bank.ID))

	converted := f.transfer(f.cash.ID, f.bank.ID, "100")
	converted.CurrencyRate = dec("0.5")
	_, err = models.UpdateAccountTransfer(f.ctx, transfer.ID, converted)
	require.NoError(t, err)
	requireAmount(t, "-100", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "50", f.accountBalance(t, f.bank.ID))

	_, err = models.DeleteAccountTransfer(f.ctx, transfer.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", f.accountBalance(t, f.bank.ID))
	f.requireConsistent(t)
}

func TestAccountTransfer_SameAccountRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := models.CreateAccountTransfer(f.ctx, f.transfer(f.cash.ID, f.cash.ID, "10"))
	require.True(t, utils.IsValidationError(err))
}
