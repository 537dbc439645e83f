package models_test

import (
	"errors"
	"testing"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCustomerPayment_CreateUpdateDelete(t *testing.T) {
	f := newLedgerFixture(t)

	payment, err := models.CreateCustomerPayment(f.ctx, f.payment("100", true))
	require.NoError(t, err)
	assert.Equal(t, "CP-000001", payment.Code)
	requireAmount(t, "100", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "100", f.customerBalance(t))

	_, err = models.UpdateCustomerPayment(f.ctx, payment.ID, f.payment("150", true))
	require.NoError(t, err)
	requireAmount(t, "150", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "150", f.customerBalance(t))

	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", f.customerBalance(t))

	entries, err := models.ListLedgerEntries(f.db, f.businessId, models.DocumentTypeCustomerPayment, payment.ID)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, models.EntryActionCreate, entries[0].Action)
	assert.Equal(t, models.EntryActionDelete, entries[5].Action)
	f.requireConsistent(t)
}

func TestCustomerPayment_AccountReassignment(t *testing.T) {
	f := newLedgerFixture(t)

	payment, err := models.CreateCustomerPayment(f.ctx, f.payment("100", true))
	require.NoError(t, err)

	moved := f.payment("150", true)
	moved.AccountId = f.bank.ID
	_, err = models.UpdateCustomerPayment(f.ctx, payment.ID, moved)
	require.NoError(t, err)

	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "150", f.accountBalance(t, f.bank.ID))
	requireAmount(t, "150", f.customerBalance(t))

	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.bank.ID))
	requireAmount(t, "0", f.customerBalance(t))
	f.requireConsistent(t)
}

func TestCustomerPayment_CustomerReassignmentWithAmount(t *testing.T) {
	f := newLedgerFixture(t)
	other, err := models.CreateCustomer(f.ctx, &models.NewCustomer{Name: "Blue Harbor"})
	require.NoError(t, err)

	payment, err := models.CreateCustomerPayment(f.ctx, f.payment("100", true))
	require.NoError(t, err)

	moved := f.payment("120", true)
	moved.PartyId = other.ID
	_, err = models.UpdateCustomerPayment(f.ctx, payment.ID, moved)
	require.NoError(t, err)

	otherBalance := func() decimal.Decimal {
		b, err := models.GetCustomerBalance(f.ctx, other.ID)
		require.NoError(t, err)
		return b
	}
	requireAmount(t, "120", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", f.customerBalance(t))
	requireAmount(t, "120", otherBalance())

	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", otherBalance())
	f.requireConsistent(t)
}

func TestCustomerPayment_PendingIsNeutral(t *testing.T) {
	f := newLedgerFixture(t)

	payment, err := models.CreateCustomerPayment(f.ctx, f.payment("100", false))
	require.NoError(t, err)
	_, err = models.UpdateCustomerPayment(f.ctx, payment.ID, f.payment("400", false))
	require.NoError(t, err)
	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)

	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", f.customerBalance(t))
	entries, err := models.ListLedgerEntries(f.db, f.businessId, models.DocumentTypeCustomerPayment, payment.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCustomerPayment_ApproveLater(t *testing.T) {
	f := newLedgerFixture(t)

	payment, err := models.CreateCustomerPayment(f.ctx, f.payment("80", false))
	require.NoError(t, err)
	assert.Nil(t, payment.ApprovedAt)

	approved, err := models.UpdateCustomerPayment(f.ctx, payment.ID, f.payment("80", true))
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedAt)
	requireAmount(t, "80", f.accountBalance(t, f.cash.ID))

	_, err = models.UpdateCustomerPayment(f.ctx, payment.ID, f.payment("80", false))
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	f.requireConsistent(t)
}

func TestCustomerPayment_RestoreAndForceDelete(t *testing.T) {
	f := newLedgerFixture(t)

	payment, err := models.CreateCustomerPayment(f.ctx, f.payment("70", true))
	require.NoError(t, err)

	_, err = models.ForceDeleteCustomerPayment(f.ctx, payment.ID)
	require.True(t, utils.IsValidationError(err), "force delete of a live payment must be rejected")

	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	_, err = models.GetCustomerPayment(f.ctx, payment.ID)
	require.ErrorIs(t, err, utils.ErrorRecordNotFound)

	restored, err := models.RestoreCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)
	requireAmount(t, "70", f.accountBalance(t, f.cash.ID))

	_, err = models.RestoreCustomerPayment(f.ctx, payment.ID)
	require.True(t, utils.IsValidationError(err))

	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	_, err = models.ForceDeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))

	var count int64
	require.NoError(t, f.db.Unscoped().Model(&models.CustomerPayment{}).Where("id = ?", payment.ID).Count(&count).Error)
	assert.Zero(t, count)
	f.requireConsistent(t)
}

func TestCustomerPayment_RestoreWithoutReapply(t *testing.T) {
	t.Setenv("RESTORE_REAPPLIES_BALANCE", "false")
	f := newLedgerFixture(t)

	payment, err := models.CreateCustomerPayment(f.ctx, f.payment("70", true))
	require.NoError(t, err)
	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	restored, err := models.RestoreCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	assert.True(t, restored.BalanceUnposted)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", f.customerBalance(t))

	// Editing and deleting a document that is not on the ledgers changes nothing.
	_, err = models.UpdateCustomerPayment(f.ctx, payment.ID, f.payment("90", true))
	require.NoError(t, err)
	_, err = models.DeleteCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "0", f.customerBalance(t))

	t.Setenv("RESTORE_REAPPLIES_BALANCE", "true")
	restored, err = models.RestoreCustomerPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	assert.False(t, restored.BalanceUnposted)
	requireAmount(t, "90", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "90", f.customerBalance(t))
	f.requireConsistent(t)
}

func TestCustomerPayment_Validation(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := models.CreateCustomerPayment(f.ctx, f.payment("0", true))
	require.True(t, utils.IsValidationError(err))

	missing := f.payment("10", true)
	missing.AccountId = 9999
	_, err = models.CreateCustomerPayment(f.ctx, missing)
	require.True(t, utils.IsValidationError(err))

	_, err = models.UpdateCustomerPayment(f.ctx, 9999, f.payment("10", true))
	require.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestCustomerPayment_RollsBackOnFailure(t *testing.T) {
	f := newLedgerFixture(t)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_entries", func(db *gorm.DB) {
		if db.Statement.Schema != nil && db.Statement.Schema.Name == "LedgerEntry" {
			_ = db.AddError(errors.New("disk full"))
		}
	}))

	_, err := models.CreateCustomerPayment(f.ctx, f.payment("100", true))
	require.ErrorIs(t, err, utils.ErrOperationFailed)

	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	var count int64
	require.NoError(t, f.db.Unscoped().Model(&models.CustomerPayment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSupplierPayment_Lifecycle(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := models.CreatePurchase(f.ctx, f.itemized(f.supplier.ID, "5", "100", true))
	require.NoError(t, err)
	requireAmount(t, "500", f.supplierBalance(t))

	approver := 1
	payment, err := models.CreateSupplierPayment(f.ctx, &models.NewPayment{
		PartyId:     f.supplier.ID,
		AccountId:   f.bank.ID,
		Amount:      dec("200"),
		PaymentDate: ruleDate,
		ApprovedBy:  &approver,
	})
	require.NoError(t, err)
	assert.Equal(t, "SP-000001", payment.Code)
	requireAmount(t, "300", f.supplierBalance(t))
	requireAmount(t, "-200", f.accountBalance(t, f.bank.ID))

	_, err = models.DeleteSupplierPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	requireAmount(t, "500", f.supplierBalance(t))
	requireAmount(t, "0", f.accountBalance(t, f.bank.ID))
	f.requireConsistent(t)
}

func TestSupplierPayment_AccountReassignmentWithAmount(t *testing.T) {
	f := newLedgerFixture(t)

	approver := 1
	input := &models.NewPayment{PartyId: f.supplier.ID, AccountId: f.cash.ID, Amount: dec("100"), PaymentDate: ruleDate, ApprovedBy: &approver}
	payment, err := models.CreateSupplierPayment(f.ctx, input)
	require.NoError(t, err)

	moved := *input
	moved.AccountId = f.bank.ID
	moved.Amount = dec("150")
	_, err = models.UpdateSupplierPayment(f.ctx, payment.ID, &moved)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "-150", f.accountBalance(t, f.bank.ID))
	requireAmount(t, "-150", f.supplierBalance(t))

	_, err = models.DeleteSupplierPayment(f.ctx, payment.ID)
	require.NoError(t, err)
	requireAmount(t, "0", f.accountBalance(t, f.bank.ID))
	requireAmount(t, "0", f.supplierBalance(t))
	f.requireConsistent(t)
}
