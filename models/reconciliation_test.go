package models_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/testutil"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileLedgers_DetectsAndRebuildsDrift(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := models.CreateCustomerPayment(f.ctx, f.payment("100", true))
	require.NoError(t, err)
	_, err = models.CreatePurchase(f.ctx, f.itemized(f.supplier.ID, "2", "30", true))
	require.NoError(t, err)
	f.requireConsistent(t)

	require.NoError(t, f.db.Model(&models.Account{}).Where("id = ?", f.cash.ID).
		UpdateColumn("current_balance", dec("999")).Error)
	require.NoError(t, f.db.Model(&models.CustomerMonthlyBalance{}).Where("customer_id = ?", f.customer.ID).
		UpdateColumn("closing_balance", dec("5")).Error)

	mismatches, err := models.ReconcileLedgers(f.ctx, f.businessId)
	require.NoError(t, err)
	require.Len(t, mismatches, 2)
	assert.Equal(t, models.AccountLedger(f.cash.ID), mismatches[0].Ledger)
	requireAmount(t, "899", mismatches[0].Difference())
	assert.Equal(t, models.CustomerLedger(f.customer.ID), mismatches[1].Ledger)
	requireAmount(t, "100", mismatches[1].EntrySum)

	require.NoError(t, models.RebuildStoredBalances(f.ctx, f.businessId, mismatches))
	f.requireConsistent(t)
	requireAmount(t, "100", f.accountBalance(t, f.cash.ID))
	requireAmount(t, "100", f.customerBalance(t))
	requireAmount(t, "60", f.supplierBalance(t))
}

func TestRebuildStoredBalances_GroupsCustomerEntriesByMonth(t *testing.T) {
	f := newLedgerFixture(t)
	thisMonth := utils.MonthStart(time.Now())

	for i, amount := range []string{"10", "20", "30"} {
		p := f.payment(amount, true)
		p.PaymentDate = thisMonth.AddDate(0, i-2, 3)
		_, err := models.CreateCustomerPayment(f.ctx, p)
		require.NoError(t, err)
	}
	require.NoError(t, f.db.Where("customer_id = ?", f.customer.ID).Delete(&models.CustomerMonthlyBalance{}).Error)

	mismatches, err := models.ReconcileLedgers(f.ctx, f.businessId)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	require.NoError(t, models.RebuildStoredBalances(f.ctx, f.businessId, mismatches))

	var months []models.CustomerMonthlyBalance
	require.NoError(t, f.db.Where("customer_id = ?", f.customer.ID).Order("month").Find(&months).Error)
	require.Len(t, months, 3)
	for i, want := range []string{"10", "30", "60"} {
		requireAmount(t, want, months[i].ClosingBalance)
	}
	requireAmount(t, "60", f.customerBalance(t))
}

func TestListBusinessIds(t *testing.T) {
	ctx, _ := testutil.SetupDB(t)
	other := testutil.NewBusinessContext()

	for i, c := range []context.Context{ctx, other} {
		_, err := models.CreateAccount(c, &models.NewAccount{Name: fmt.Sprintf("Cash %d", i)})
		require.NoError(t, err)
	}

	ids, err := models.ListBusinessIds(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
