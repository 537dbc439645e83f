package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemizedDocument holds the columns shared by purchases, purchase returns
// and sales.
type ItemizedDocument struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id"`
	Code            string          `gorm:"size:100;not null;index" json:"code"`
	SequenceNo      int64           `gorm:"not null" json:"sequence_no"`
	DocumentDate    time.Time       `gorm:"index;not null" json:"document_date"`
	CurrencyId      int             `gorm:"not null;default:0" json:"currency_id"`
	CurrencyRate    decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"currency_rate"`
	Total           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	TotalUsd        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_usd"`
	ReferenceNumber string          `gorm:"size:255" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`
	ApprovedBy      *int            `json:"approved_by"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	BalancePosting
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

// NewItemizedDocument is the input for purchases, purchase returns and
// sales. Total may be left zero to use the sum of the lines.
type NewItemizedDocument struct {
	PartyId         int               `json:"party_id" validate:"required,gt=0"`
	DocumentDate    time.Time         `json:"document_date" validate:"required"`
	CurrencyId      int               `json:"currency_id" validate:"gte=0"`
	CurrencyRate    decimal.Decimal   `json:"currency_rate"`
	Total           decimal.Decimal   `json:"total"`
	ReferenceNumber string            `json:"reference_number" validate:"max=255"`
	Notes           string            `json:"notes"`
	ApprovedBy      *int              `json:"approved_by" validate:"omitempty,gt=0"`
	Items           []NewDocumentItem `json:"items" validate:"dive"`
}

type (
	NewPurchase       = NewItemizedDocument
	NewPurchaseReturn = NewItemizedDocument
	NewSale           = NewItemizedDocument
)

func (d ItemizedDocument) documentDate() time.Time { return d.DocumentDate }

func (d ItemizedDocument) isDeleted() bool { return d.DeletedAt.Valid }

func (d *ItemizedDocument) assignCode(code string, sequenceNo int64) {
	d.Code = code
	d.SequenceNo = sequenceNo
}

func (d *ItemizedDocument) base() *ItemizedDocument { return d }

func (d ItemizedDocument) state(partyId int) CounterpartyDocumentState {
	return CounterpartyDocumentState{
		Approved: d.ApprovedBy != nil && !d.BalanceUnposted,
		PartyId:  partyId,
		TotalUsd: d.TotalUsd,
		Date:     d.DocumentDate,
	}
}

func (input *NewItemizedDocument) total() decimal.Decimal {
	if !input.Total.IsZero() {
		return input.Total
	}
	sum := decimal.Zero
	for _, it := range input.Items {
		sum = sum.Add(it.Qty.Mul(it.UnitPrice))
	}
	return sum.Round(4)
}

func (input *NewItemizedDocument) validate(ctx context.Context, businessId string, partyKind LedgerKind) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.total().IsPositive() {
		return utils.NewValidationError("total must be positive")
	}
	itemIds := make([]int, 0, len(input.Items))
	for _, it := range input.Items {
		if !it.Qty.IsPositive() {
			return utils.NewValidationError("item quantity must be positive")
		}
		if it.UnitPrice.IsNegative() {
			return utils.NewValidationError("item unit price cannot be negative")
		}
		itemIds = append(itemIds, it.ItemId)
	}
	if err := utils.ValidateResourcesId[Item](ctx, businessId, itemIds); err != nil {
		return utils.NewValidationError("item not found")
	}
	switch partyKind {
	case LedgerKindCustomer:
		if err := utils.ValidateResourceId[Customer](ctx, businessId, input.PartyId); err != nil {
			return utils.NewValidationError("customer not found")
		}
	case LedgerKindSupplier:
		if err := utils.ValidateResourceId[Supplier](ctx, businessId, input.PartyId); err != nil {
			return utils.NewValidationError("supplier not found")
		}
	}
	return nil
}

func (input *NewItemizedDocument) applyTo(d *ItemizedDocument, rate decimal.Decimal, now time.Time) {
	total := input.total()
	d.DocumentDate = input.DocumentDate
	d.CurrencyId = input.CurrencyId
	d.CurrencyRate = rate
	d.Total = total
	d.TotalUsd = ToBaseAmount(total, rate)
	d.ReferenceNumber = input.ReferenceNumber
	d.Notes = input.Notes
	d.ApprovedBy, d.ApprovedAt = approvalStamp(input.ApprovedBy, d.ApprovedBy, d.ApprovedAt, now)
}

type itemizedDocument interface {
	ledgerDocument
	base() *ItemizedDocument
	counterpartyState() CounterpartyDocumentState
	setPartyId(id int)
	lineItems() []DocumentItem
	setLineItems(items []DocumentItem)
}

type itemizedPtr[T any] interface {
	*T
	itemizedDocument
}

// itemizedKind describes how a document type moves balances, stock and
// price history.
type itemizedKind struct {
	module       string
	docType      DocumentType
	rules        CounterpartyRules
	stockDir     direction
	priceHistory bool
}

func (k itemizedKind) postLines(tx *gorm.DB, ref DocumentReference, date time.Time, items []DocumentItem) error {
	if err := moveStock(tx, ref.BusinessId, items, k.stockDir); err != nil {
		return err
	}
	if k.priceHistory {
		return recordPriceHistory(tx, ref, date, priceHistoryLines(items))
	}
	return nil
}

func (k itemizedKind) unpostLines(tx *gorm.DB, ref DocumentReference, items []DocumentItem) error {
	if err := moveStock(tx, ref.BusinessId, items, k.stockDir.flip()); err != nil {
		return err
	}
	if k.priceHistory {
		return removePriceHistory(tx, ref)
	}
	return nil
}

func createItemized[T any, P itemizedPtr[T]](ctx context.Context, kind itemizedKind, input *NewItemizedDocument) (P, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId, kind.rules.PartyKind); err != nil {
		return nil, err
	}
	rate, err := resolveRate(ctx, input.CurrencyId, input.CurrencyRate)
	if err != nil {
		return nil, err
	}

	doc := P(new(T))
	doc.base().BusinessId = businessId
	input.applyTo(doc.base(), rate, time.Now().UTC())
	doc.setPartyId(input.PartyId)
	doc.setLineItems(mapDocumentItems(businessId, doc.reference(), input.Items))

	err = createDocument[T, P](ctx, businessId, kind.module, kind.docType, doc, func(tx *gorm.DB, doc P) error {
		ref := doc.reference()
		if err := ApplyAdjustments(tx, ref, EntryActionCreate, kind.rules.OnCreate(doc.counterpartyState())); err != nil {
			return err
		}
		return kind.postLines(tx, ref, doc.documentDate(), doc.lineItems())
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// updateItemized replaces the line set: old lines are unposted and purged,
// new lines are inserted and posted.
func updateItemized[T any, P itemizedPtr[T]](ctx context.Context, kind itemizedKind, id int, input *NewItemizedDocument) (P, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId, kind.rules.PartyKind); err != nil {
		return nil, err
	}
	rate, err := resolveRate(ctx, input.CurrencyId, input.CurrencyRate)
	if err != nil {
		return nil, err
	}

	return updateDocument[T, P](ctx, businessId, kind.module, id, []string{"Items"},
		func(tx *gorm.DB, old P) (P, error) {
			updated := *old
			doc := P(&updated)
			input.applyTo(doc.base(), rate, time.Now().UTC())
			doc.setPartyId(input.PartyId)
			doc.setLineItems(mapDocumentItems(businessId, doc.reference(), input.Items))
			return doc, nil
		},
		func(tx *gorm.DB, old P, new P) error {
			ref := new.reference()
			if err := ApplyAdjustments(tx, ref, EntryActionUpdate, kind.rules.OnUpdate(old.counterpartyState(), new.counterpartyState())); err != nil {
				return err
			}
			if err := kind.unpostLines(tx, ref, old.lineItems()); err != nil {
				return err
			}
			if err := purgeDocumentItems(tx, ref); err != nil {
				return err
			}
			items := new.lineItems()
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
			new.setLineItems(items)
			return kind.postLines(tx, ref, new.documentDate(), items)
		})
}

func itemizedHooks[T any, P itemizedPtr[T]](kind itemizedKind) documentHooks[P] {
	return documentHooks[P]{
		module:  kind.module,
		docType: kind.docType,
		preload: []string{"Items"},
		onDelete: func(tx *gorm.DB, doc P) error {
			ref := doc.reference()
			if err := ApplyAdjustments(tx, ref, EntryActionDelete, kind.rules.OnDelete(doc.counterpartyState())); err != nil {
				return err
			}
			items, err := loadDocumentItems(tx, ref)
			if err != nil {
				return err
			}
			if err := moveStock(tx, ref.BusinessId, items, kind.stockDir.flip()); err != nil {
				return err
			}
			if kind.priceHistory {
				if err := setPriceHistoryReversed(tx, ref, true); err != nil {
					return err
				}
			}
			return softDeleteDocumentItems(tx, ref)
		},
		onRestore: func(tx *gorm.DB, doc P) error {
			ref := doc.reference()
			if err := ApplyAdjustments(tx, ref, EntryActionRestore, kind.rules.OnRestore(doc.counterpartyState())); err != nil {
				return err
			}
			if err := restoreDocumentItems(tx, ref); err != nil {
				return err
			}
			items, err := loadDocumentItems(tx, ref)
			if err != nil {
				return err
			}
			if err := moveStock(tx, ref.BusinessId, items, kind.stockDir); err != nil {
				return err
			}
			if kind.priceHistory {
				return setPriceHistoryReversed(tx, ref, false)
			}
			return nil
		},
		onForceDrop: func(tx *gorm.DB, doc P) error {
			ref := doc.reference()
			if err := purgeDocumentItems(tx, ref); err != nil {
				return err
			}
			return removePriceHistory(tx, ref)
		},
	}
}
