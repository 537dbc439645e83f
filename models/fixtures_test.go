package models_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/testutil"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	ctx        context.Context
	db         *gorm.DB
	businessId string
	cash       *models.Account
	bank       *models.Account
	customer   *models.Customer
	supplier   *models.Supplier
	item       *models.Item
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx, db := testutil.SetupDB(t)
	businessId, err := utils.RequireBusinessId(ctx)
	require.NoError(t, err)

	f := &ledgerFixture{ctx: ctx, db: db, businessId: businessId}
	f.cash = f.newAccount(t, "Cash")
	f.bank = f.newAccount(t, "Bank")
	f.customer, err = models.CreateCustomer(ctx, &models.NewCustomer{Name: "Acme Retail"})
	require.NoError(t, err)
	f.supplier, err = models.CreateSupplier(ctx, &models.NewSupplier{Name: "Northwind"})
	require.NoError(t, err)
	f.item, err = models.CreateItem(ctx, &models.NewItem{Name: "Widget", Sku: "W-1"})
	require.NoError(t, err)
	return f
}

func (f *ledgerFixture) newAccount(t *testing.T, name string) *models.Account {
	t.Helper()
	account, err := models.CreateAccount(f.ctx, &models.NewAccount{Name: name})
	require.NoError(t, err)
	return account
}

func (f *ledgerFixture) accountBalance(t *testing.T, id int) decimal.Decimal {
	t.Helper()
	b, err := models.GetAccountBalance(f.ctx, id)
	require.NoError(t, err)
	return b
}

func (f *ledgerFixture) supplierBalance(t *testing.T) decimal.Decimal {
	t.Helper()
	b, err := models.GetSupplierBalance(f.ctx, f.supplier.ID)
	require.NoError(t, err)
	return b
}

func (f *ledgerFixture) customerBalance(t *testing.T) decimal.Decimal {
	t.Helper()
	b, err := models.GetCustomerBalance(f.ctx, f.customer.ID)
	require.NoError(t, err)
	return b
}

func (f *ledgerFixture) stockQty(t *testing.T) decimal.Decimal {
	t.Helper()
	q, err := models.GetStockQty(f.ctx, f.item.ID, 0)
	require.NoError(t, err)
	return q
}

// requireConsistent fails when any stored balance drifted from its entries.
func (f *ledgerFixture) requireConsistent(t *testing.T) {
	t.Helper()
	mismatches, err := models.ReconcileLedgers(f.ctx, f.businessId)
	require.NoError(t, err)
	require.Empty(t, mismatches)
}

func (f *ledgerFixture) payment(amount string, approved bool) *models.NewPayment {
	input := &models.NewPayment{
		PartyId:     f.customer.ID,
		AccountId:   f.cash.ID,
		Amount:      dec(amount),
		PaymentDate: time.Now().UTC(),
	}
	if approved {
		approver := 1
		input.ApprovedBy = &approver
	}
	return input
}

func (f *ledgerFixture) lines(qty string, price string) []models.NewDocumentItem {
	return []models.NewDocumentItem{{ItemId: f.item.ID, Qty: dec(qty), UnitPrice: dec(price)}}
}

func (f *ledgerFixture) itemized(partyId int, qty string, price string, approved bool) *models.NewItemizedDocument {
	input := &models.NewItemizedDocument{
		PartyId:      partyId,
		DocumentDate: time.Now().UTC(),
		Items:        f.lines(qty, price),
	}
	if approved {
		approver := 1
		input.ApprovedBy = &approver
	}
	return input
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), fmt.Sprintf("want %s, got %s", want, got))
}
