package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ledgerDocument is implemented by every financial document.
type ledgerDocument interface {
	reference() DocumentReference
	documentDate() time.Time
	isDeleted() bool
	assignCode(code string, sequenceNo int64)
	balanceUnposted() bool
	setBalanceUnposted(v bool)
}

// BalancePosting marks a live document whose balance effect is not on the
// ledgers, which happens when it was restored without re-posting. Deleting
// or editing such a document must not reverse anything.
type BalancePosting struct {
	BalanceUnposted bool `gorm:"not null;default:false" json:"balance_unposted"`
}

func (b BalancePosting) balanceUnposted() bool { return b.BalanceUnposted }

func (b *BalancePosting) setBalanceUnposted(v bool) { b.BalanceUnposted = v }

type documentPtr[T any] interface {
	*T
	ledgerDocument
}

// documentHooks carries the per-type side effects of a lifecycle event.
// Each hook runs inside the document's transaction.
type documentHooks[P any] struct {
	module      string
	docType     DocumentType
	preload     []string
	onDelete    func(tx *gorm.DB, doc P) error
	onRestore   func(tx *gorm.DB, doc P) error
	onForceDrop func(tx *gorm.DB, doc P) error
}

// approvalStamp keeps the original approval time while the approver is
// unchanged.
func approvalStamp(approvedBy *int, prevBy *int, prevAt *time.Time, now time.Time) (*int, *time.Time) {
	if approvedBy == nil {
		return nil, nil
	}
	by := *approvedBy
	if prevBy != nil && *prevBy == by && prevAt != nil {
		at := *prevAt
		return &by, &at
	}
	at := now
	return &by, &at
}

// createDocument reserves a code, inserts doc and runs effects.
func createDocument[T any, P documentPtr[T]](ctx context.Context, businessId string, module string, docType DocumentType, doc P, effects func(tx *gorm.DB, doc P) error) error {
	return runInTransaction(ctx, module, "Create"+module, doc, func(tx *gorm.DB) error {
		code, seq, err := reserveDocumentCode(tx, businessId, docType)
		if err != nil {
			return err
		}
		doc.assignCode(code, seq)
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		if err := effects(tx, doc); err != nil {
			return err
		}
		return PublishDocumentEvent(tx, doc.reference(), doc.documentDate(), doc, nil, EntryActionCreate)
	})
}

// updateDocument locks the stored row, lets mutate build the new version,
// saves it and runs effects with both versions.
func updateDocument[T any, P documentPtr[T]](ctx context.Context, businessId string, module string, id int, preload []string,
	mutate func(tx *gorm.DB, old P) (P, error), effects func(tx *gorm.DB, old P, new P) error) (P, error) {
	var result P
	err := runInTransaction(ctx, module, "Update"+module, id, func(tx *gorm.DB) error {
		found, err := utils.LockModel[T](tx.Where("business_id = ?", businessId), id, false, preload...)
		if err != nil {
			return err
		}
		old := P(found)
		updated, err := mutate(tx, old)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(updated).Error; err != nil {
			return err
		}
		if err := effects(tx, old, updated); err != nil {
			return err
		}
		result = updated
		return PublishDocumentEvent(tx, updated.reference(), updated.documentDate(), updated, old, EntryActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func softDeleteDocument[T any, P documentPtr[T]](ctx context.Context, businessId string, id int, hooks documentHooks[P]) (P, error) {
	var result P
	err := runInTransaction(ctx, hooks.module, "Delete"+hooks.module, id, func(tx *gorm.DB) error {
		found, err := utils.LockModel[T](tx.Where("business_id = ?", businessId), id, false, hooks.preload...)
		if err != nil {
			return err
		}
		doc := P(found)
		if err := hooks.onDelete(tx, doc); err != nil {
			return err
		}
		if err := tx.Delete(doc).Error; err != nil {
			return err
		}
		result = doc
		return PublishDocumentEvent(tx, doc.reference(), doc.documentDate(), nil, doc, EntryActionDelete)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func restoreDocument[T any, P documentPtr[T]](ctx context.Context, businessId string, id int, hooks documentHooks[P]) (P, error) {
	var result P
	err := runInTransaction(ctx, hooks.module, "Restore"+hooks.module, id, func(tx *gorm.DB) error {
		found, err := utils.LockModel[T](tx.Where("business_id = ?", businessId), id, true)
		if err != nil {
			return err
		}
		doc := P(found)
		if !doc.isDeleted() {
			return utils.NewValidationError("%s %d is not deleted", hooks.module, id)
		}
		unposted := !restoreReapplies(hooks.docType)
		doc.setBalanceUnposted(unposted)
		if err := tx.Unscoped().Model(doc).Updates(map[string]any{"deleted_at": nil, "balance_unposted": unposted}).Error; err != nil {
			return err
		}
		if err := hooks.onRestore(tx, doc); err != nil {
			return err
		}
		restored, err := utils.LockModel[T](tx, id, false, hooks.preload...)
		if err != nil {
			return err
		}
		result = P(restored)
		return PublishDocumentEvent(tx, result.reference(), result.documentDate(), result, nil, EntryActionRestore)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// forceDeleteDocument removes a soft-deleted document for good. Its
// balance effect was already reversed by the soft delete.
func forceDeleteDocument[T any, P documentPtr[T]](ctx context.Context, businessId string, id int, hooks documentHooks[P]) (P, error) {
	var result P
	err := runInTransaction(ctx, hooks.module, "ForceDelete"+hooks.module, id, func(tx *gorm.DB) error {
		found, err := utils.LockModel[T](tx.Where("business_id = ?", businessId), id, true, hooks.preload...)
		if err != nil {
			return err
		}
		doc := P(found)
		if !doc.isDeleted() {
			return utils.NewValidationError("%s %d must be deleted before it can be removed permanently", hooks.module, id)
		}
		if hooks.onForceDrop != nil {
			if err := hooks.onForceDrop(tx, doc); err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Delete(doc).Error; err != nil {
			return err
		}
		result = doc
		return PublishDocumentEvent(tx, doc.reference(), doc.documentDate(), nil, doc, EntryActionForceDelete)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// restoreReapplies reports whether a restore re-posts the balance effect.
func restoreReapplies(docType DocumentType) bool {
	return docType == DocumentTypePurchaseReturn || config.RestoreReappliesBalance()
}
