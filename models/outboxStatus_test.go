package models_test

import (
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxStatus_RequeueDeadRows(t *testing.T) {
	f := newLedgerFixture(t)
	transfer, err := models.CreateAccountTransfer(f.ctx, &models.NewAccountTransfer{
		FromAccountId: f.cash.ID,
		ToAccountId:   f.bank.ID,
		TransferDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		SentAmount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	status, err := models.GetOutboxStatus(f.ctx, models.DocumentTypeAccountTransfer, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutboxPublishStatusPending, status.PublishStatus)
	assert.Equal(t, models.EntryActionCreate, status.Action)

	_, err = models.RequeueOutbox(f.ctx, models.DocumentTypeAccountTransfer, transfer.ID)
	assert.True(t, utils.IsValidationError(err))

	require.NoError(t, f.db.Model(&models.OutboxRecord{}).Where("id = ?", status.RecordId).
		Updates(map[string]interface{}{"publish_status": models.OutboxPublishStatusDead, "publish_attempts": 8}).Error)

	dead, err := models.ListOutboxByStatus(f.ctx, models.OutboxPublishStatusDead, 0)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, transfer.ID, dead[0].ReferenceId)

	status, err = models.RequeueOutbox(f.ctx, models.DocumentTypeAccountTransfer, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutboxPublishStatusPending, status.PublishStatus)
	assert.Zero(t, status.PublishAttempts)
	assert.Nil(t, status.NextAttemptAt)
}

func TestOutboxStatus_Errors(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := models.GetOutboxStatus(f.ctx, models.DocumentTypeSale, 42)
	require.ErrorIs(t, err, utils.ErrorRecordNotFound)

	_, err = models.ListOutboxByStatus(f.ctx, "LOST", 10)
	assert.True(t, utils.IsValidationError(err))
}
