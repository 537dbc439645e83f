package models

import (
	"time"

	"github.com/mmdatafocus/erp_backend/config"
)

// Outbox publish statuses for OutboxRecord.PublishStatus.
const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)

// OutboxRecord is written in the same transaction as the document change;
// the dispatcher publishes it after commit.
type OutboxRecord struct {
	ID               int          `gorm:"primary_key;index:idx_outbox_dispatch,priority:3" json:"id"`
	BusinessId       string       `gorm:"size:64;not null;index" json:"business_id"`
	DocumentDate     time.Time    `gorm:"index;not null" json:"document_date"`
	ReferenceId      int          `gorm:"index" json:"reference_id"`
	ReferenceType    DocumentType `gorm:"size:8;not null" json:"reference_type"`
	Action           EntryAction  `gorm:"size:1;not null" json:"action"`
	OldObj           []byte       `gorm:"type:blob" json:"old_obj"`
	NewObj           []byte       `gorm:"type:blob" json:"new_obj"`
	PublishStatus    string       `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"` // PENDING|PROCESSING|SENT|FAILED|DEAD
	PublishedAt      *time.Time   `gorm:"index" json:"published_at"`
	PubSubMessageId  *string      `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int          `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time   `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time   `gorm:"index" json:"locked_at"`
	LockedBy         *string      `gorm:"size:100" json:"locked_by"`
	LastPublishError *string      `gorm:"type:text" json:"last_publish_error"`
	CorrelationId    string       `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func ConvertToDocumentEvent(record OutboxRecord) config.DocumentEventMessage {
	return config.DocumentEventMessage{
		ID:            record.ID,
		BusinessId:    record.BusinessId,
		DocumentDate:  record.DocumentDate,
		ReferenceId:   record.ReferenceId,
		ReferenceType: string(record.ReferenceType),
		Action:        string(record.Action),
		OldObj:        record.OldObj,
		NewObj:        record.NewObj,
		CorrelationId: record.CorrelationId,
	}
}
