package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

// OutboxStatus is the latest outbox row for a document.
type OutboxStatus struct {
	RecordId         int          `json:"record_id"`
	ReferenceType    DocumentType `json:"reference_type"`
	ReferenceId      int          `json:"reference_id"`
	Action           EntryAction  `json:"action"`
	PublishStatus    string       `json:"publish_status"`
	PublishAttempts  int          `json:"publish_attempts"`
	NextAttemptAt    *time.Time   `json:"next_attempt_at"`
	LastPublishError *string      `json:"last_publish_error"`
	CreatedAt        time.Time    `json:"created_at"`
	PublishedAt      *time.Time   `json:"published_at"`
}

func toOutboxStatus(rec OutboxRecord) *OutboxStatus {
	return &OutboxStatus{
		RecordId:         rec.ID,
		ReferenceType:    rec.ReferenceType,
		ReferenceId:      rec.ReferenceId,
		Action:           rec.Action,
		PublishStatus:    rec.PublishStatus,
		PublishAttempts:  rec.PublishAttempts,
		NextAttemptAt:    rec.NextAttemptAt,
		LastPublishError: rec.LastPublishError,
		CreatedAt:        rec.CreatedAt,
		PublishedAt:      rec.PublishedAt,
	}
}

func GetOutboxStatus(ctx context.Context, referenceType DocumentType, referenceId int) (*OutboxStatus, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}

	var rec OutboxRecord
	err = config.GetDB().WithContext(ctx).
		Where("business_id = ? AND reference_type = ? AND reference_id = ?", businessId, referenceType, referenceId).
		Order("id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return toOutboxStatus(rec), nil
}

// ListOutboxByStatus returns the business's outbox rows in a publish status, oldest first.
func ListOutboxByStatus(ctx context.Context, status string, limit int) ([]*OutboxStatus, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	switch status {
	case OutboxPublishStatusPending, OutboxPublishStatusProcessing, OutboxPublishStatusSent,
		OutboxPublishStatusFailed, OutboxPublishStatusDead:
	default:
		return nil, utils.NewValidationError("unknown outbox status %q", status)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var records []OutboxRecord
	if err := config.GetDB().WithContext(ctx).
		Where("business_id = ? AND publish_status = ?", businessId, status).
		Order("id").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]*OutboxStatus, 0, len(records))
	for _, rec := range records {
		result = append(result, toOutboxStatus(rec))
	}
	return result, nil
}

// RequeueOutbox puts a document's FAILED or DEAD outbox rows back to PENDING
// so the dispatcher picks them up on its next poll. Attempts are reset.
func RequeueOutbox(ctx context.Context, referenceType DocumentType, referenceId int) (*OutboxStatus, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}

	res := config.GetDB().WithContext(ctx).Model(&OutboxRecord{}).
		Where("business_id = ? AND reference_type = ? AND reference_id = ?", businessId, referenceType, referenceId).
		Where("publish_status IN ?", []string{OutboxPublishStatusFailed, OutboxPublishStatusDead}).
		Updates(map[string]interface{}{
			"publish_status":   OutboxPublishStatusPending,
			"publish_attempts": 0,
			"next_attempt_at":  nil,
			"locked_at":        nil,
			"locked_by":        nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.NewValidationError("no failed outbox rows for %s %d", referenceType, referenceId)
	}
	return GetOutboxStatus(ctx, referenceType, referenceId)
}
