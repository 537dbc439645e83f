package models_test

import (
	"fmt"
	"testing"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDocument_DecodesByType(t *testing.T) {
	f := newLedgerFixture(t)

	payload := fmt.Sprintf(`{"party_id":%d,"account_id":%d,"amount":"45.5","payment_date":"2024-03-15T00:00:00Z","approved_by":1}`,
		f.customer.ID, f.cash.ID)
	created, err := models.CreateDocument(f.ctx, models.DocumentTypeCustomerPayment, []byte(payload))
	require.NoError(t, err)
	payment, ok := created.(*models.CustomerPayment)
	require.True(t, ok)
	requireAmount(t, "45.5", f.accountBalance(t, f.cash.ID))

	fetched, err := models.GetDocument(f.ctx, models.DocumentTypeCustomerPayment, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.Code, fetched.(*models.CustomerPayment).Code)

	_, err = models.DeleteDocument(f.ctx, models.DocumentTypeCustomerPayment, payment.ID)
	require.NoError(t, err)
	_, err = models.ForceDeleteDocument(f.ctx, models.DocumentTypeCustomerPayment, payment.ID)
	require.NoError(t, err)
	_, err = models.GetDocument(f.ctx, models.DocumentTypeCustomerPayment, payment.ID)
	require.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestUpdateDocument_Itemized(t *testing.T) {
	f := newLedgerFixture(t)

	body := `{"party_id":%d,"document_date":"2024-03-15T00:00:00Z","approved_by":1,"items":[{"item_id":%d,"qty":"%s","unit_price":"10"}]}`
	created, err := models.CreateDocument(f.ctx, models.DocumentTypePurchase, []byte(fmt.Sprintf(body, f.supplier.ID, f.item.ID, "3")))
	require.NoError(t, err)
	purchase := created.(*models.Purchase)
	requireAmount(t, "30", f.supplierBalance(t))

	_, err = models.UpdateDocument(f.ctx, models.DocumentTypePurchase, purchase.ID, []byte(fmt.Sprintf(body, f.supplier.ID, f.item.ID, "5")))
	require.NoError(t, err)
	requireAmount(t, "50", f.supplierBalance(t))
	requireAmount(t, "5", f.stockQty(t))
}

func TestCreateDocument_RejectsBadInput(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := models.CreateDocument(f.ctx, models.DocumentTypeAccountTransfer, []byte(`{"from_account_id":`))
	require.True(t, utils.IsValidationError(err))

	_, err = models.CreateDocument(f.ctx, models.DocumentTypeSetup, []byte(`{}`))
	require.True(t, utils.IsValidationError(err))

	_, err = models.DeleteDocument(f.ctx, models.DocumentTypeSetup, 1)
	require.True(t, utils.IsValidationError(err))
}

func TestGetLedgerBalance(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := models.CreateCustomerPayment(f.ctx, f.payment("12", true))
	require.NoError(t, err)

	for kind, id := range map[models.LedgerKind]int{
		models.LedgerKindAccount:  f.cash.ID,
		models.LedgerKindCustomer: f.customer.ID,
	} {
		balance, err := models.GetLedgerBalance(f.ctx, kind, id)
		require.NoError(t, err)
		requireAmount(t, "12", balance)
	}

	_, err = models.GetLedgerBalance(f.ctx, models.LedgerKindSupplier, 9999)
	require.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestSlugs(t *testing.T) {
	docType, err := models.DocumentTypeFromSlug("purchase-returns")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentTypePurchaseReturn, docType)

	_, err = models.DocumentTypeFromSlug("invoices")
	require.ErrorIs(t, err, utils.ErrorRecordNotFound)

	kind, err := models.LedgerKindFromSlug("suppliers")
	require.NoError(t, err)
	assert.Equal(t, models.LedgerKindSupplier, kind)
}
