package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

// runInTransaction wraps fn in one database transaction. Validation and
// not-found errors pass through; anything else is logged with data and
// surfaced as utils.ErrOperationFailed.
func runInTransaction(ctx context.Context, moduleName string, funcName string, data any, fn func(tx *gorm.DB) error) error {
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	if utils.IsValidationError(err) || errors.Is(err, utils.ErrorRecordNotFound) {
		return err
	}
	config.LogError(config.GetLogger(), moduleName, funcName, "transaction rolled back", data, err)
	return fmt.Errorf("%w, all changes rolled back", utils.ErrOperationFailed)
}

// PublishDocumentEvent queues a document event in the outbox, inside tx.
func PublishDocumentEvent(tx *gorm.DB, ref DocumentReference, documentDate time.Time, obj any, oldObj any, action EntryAction) error {
	var objInByte, oldObjInByte []byte
	var err error
	if obj != nil {
		if objInByte, err = json.Marshal(obj); err != nil {
			return err
		}
	}
	if oldObj != nil {
		if oldObjInByte, err = json.Marshal(oldObj); err != nil {
			return err
		}
	}
	record := OutboxRecord{
		BusinessId:    ref.BusinessId,
		DocumentDate:  documentDate,
		ReferenceId:   ref.Id,
		ReferenceType: ref.Type,
		Action:        action,
		NewObj:        objInByte,
		OldObj:        oldObjInByte,
		PublishStatus: OutboxPublishStatusPending,
		CorrelationId: correlationIdFromContextOrNew(tx.Statement.Context),
	}
	return tx.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
