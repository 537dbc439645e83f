package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/testutil"
	"github.com/mmdatafocus/erp_backend/workflow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedOutbox leaves exactly one pending outbox row: accounts queue no
// events, the transfer queues one.
func seedOutbox(t *testing.T) (context.Context, *gorm.DB) {
	t.Helper()
	ctx, db := testutil.SetupDB(t)
	from, err := models.CreateAccount(ctx, &models.NewAccount{Name: "Cash"})
	require.NoError(t, err)
	to, err := models.CreateAccount(ctx, &models.NewAccount{Name: "Bank"})
	require.NoError(t, err)
	_, err = models.CreateAccountTransfer(ctx, &models.NewAccountTransfer{
		FromAccountId: from.ID,
		ToAccountId:   to.ID,
		TransferDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		SentAmount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return ctx, db
}

func newDispatcher(db *gorm.DB, publish workflow.PublishFunc) *workflow.OutboxDispatcher {
	logger, _ := test.NewNullLogger()
	d := workflow.NewOutboxDispatcher(db, logger)
	d.Publish = publish
	d.InitialBackoff = time.Minute
	return d
}

func loadOutbox(t *testing.T, db *gorm.DB) models.OutboxRecord {
	t.Helper()
	var records []models.OutboxRecord
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	return records[0]
}

func TestOutboxDispatcher_PublishesPendingRecords(t *testing.T) {
	_, db := seedOutbox(t)

	var published []config.DocumentEventMessage
	d := newDispatcher(db, func(_ context.Context, msg config.DocumentEventMessage) (string, error) {
		published = append(published, msg)
		return "msg-1", nil
	})

	sent, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, published, 1)
	assert.Equal(t, string(models.DocumentTypeAccountTransfer), published[0].ReferenceType)
	assert.Equal(t, string(models.EntryActionCreate), published[0].Action)
	assert.NotEmpty(t, published[0].NewObj)

	rec := loadOutbox(t, db)
	assert.Equal(t, models.OutboxPublishStatusSent, rec.PublishStatus)
	require.NotNil(t, rec.PubSubMessageId)
	assert.Equal(t, "msg-1", *rec.PubSubMessageId)
	assert.Equal(t, 1, rec.PublishAttempts)
	assert.Nil(t, rec.LockedBy)

	sent, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestOutboxDispatcher_FailureSchedulesRetry(t *testing.T) {
	_, db := seedOutbox(t)

	calls := 0
	d := newDispatcher(db, func(context.Context, config.DocumentEventMessage) (string, error) {
		calls++
		return "", errors.New("broker unavailable")
	})

	sent, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	rec := loadOutbox(t, db)
	assert.Equal(t, models.OutboxPublishStatusFailed, rec.PublishStatus)
	require.NotNil(t, rec.LastPublishError)
	assert.Equal(t, "broker unavailable", *rec.LastPublishError)
	require.NotNil(t, rec.NextAttemptAt)
	assert.True(t, rec.NextAttemptAt.After(time.Now()))

	// not due yet
	_, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestOutboxDispatcher_MovesToDeadAfterMaxAttempts(t *testing.T) {
	_, db := seedOutbox(t)

	d := newDispatcher(db, func(context.Context, config.DocumentEventMessage) (string, error) {
		return "", errors.New("rejected")
	})
	d.MaxAttempts = 1

	_, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)

	rec := loadOutbox(t, db)
	assert.Equal(t, models.OutboxPublishStatusDead, rec.PublishStatus)
	assert.Nil(t, rec.NextAttemptAt)
}

func TestOutboxDispatcher_WithoutDatabaseIsNoop(t *testing.T) {
	d := workflow.NewOutboxDispatcher(nil, nil)
	publishCalled := false
	d.Publish = func(context.Context, config.DocumentEventMessage) (string, error) {
		publishCalled = true
		return "", nil
	}

	sent, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.False(t, publishCalled)
}
