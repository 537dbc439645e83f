package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment holds the columns shared by customer and supplier payments.
type Payment struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id"`
	Code            string          `gorm:"size:100;not null;index" json:"code"`
	SequenceNo      int64           `gorm:"not null" json:"sequence_no"`
	AccountId       int             `gorm:"index;not null" json:"account_id"`
	CurrencyId      int             `gorm:"not null;default:0" json:"currency_id"`
	CurrencyRate    decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"currency_rate"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	AmountUsd       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_usd"`
	PaymentDate     time.Time       `gorm:"index;not null" json:"payment_date"`
	ReferenceNumber string          `gorm:"size:255" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`
	ApprovedBy      *int            `json:"approved_by"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	BalancePosting
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

type NewPayment struct {
	PartyId         int             `json:"party_id" validate:"required,gt=0"`
	AccountId       int             `json:"account_id" validate:"required,gt=0"`
	CurrencyId      int             `json:"currency_id" validate:"gte=0"`
	CurrencyRate    decimal.Decimal `json:"currency_rate"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date" validate:"required"`
	ReferenceNumber string          `json:"reference_number" validate:"max=255"`
	Notes           string          `json:"notes"`
	ApprovedBy      *int            `json:"approved_by" validate:"omitempty,gt=0"`
}

func (p Payment) documentDate() time.Time { return p.PaymentDate }

func (p Payment) isDeleted() bool { return p.DeletedAt.Valid }

func (p *Payment) assignCode(code string, sequenceNo int64) {
	p.Code = code
	p.SequenceNo = sequenceNo
}

func (p *Payment) base() *Payment { return p }

func (p Payment) state(partyId int) PaymentState {
	return PaymentState{
		Approved:  p.ApprovedBy != nil && !p.BalanceUnposted,
		AccountId: p.AccountId,
		PartyId:   partyId,
		AmountUsd: p.AmountUsd,
		Date:      p.PaymentDate,
	}
}

func (input *NewPayment) validate(ctx context.Context, businessId string, partyKind LedgerKind) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Amount.IsPositive() {
		return utils.NewValidationError("amount must be positive")
	}
	if err := utils.ValidateResourceId[Account](ctx, businessId, input.AccountId); err != nil {
		return utils.NewValidationError("account not found")
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

func (input *NewPayment) applyTo(p *Payment, rate decimal.Decimal, now time.Time) {
	p.AccountId = input.AccountId
	p.CurrencyId = input.CurrencyId
	p.CurrencyRate = rate
	p.Amount = input.Amount
	p.AmountUsd = ToBaseAmount(input.Amount, rate)
	p.PaymentDate = input.PaymentDate
	p.ReferenceNumber = input.ReferenceNumber
	p.Notes = input.Notes
	p.ApprovedBy, p.ApprovedAt = approvalStamp(input.ApprovedBy, p.ApprovedBy, p.ApprovedAt, now)
}

type paymentDocument interface {
	ledgerDocument
	base() *Payment
	paymentState() PaymentState
	setPartyId(id int)
}

type paymentPtr[T any] interface {
	*T
	paymentDocument
}

type paymentKind struct {
	module  string
	docType DocumentType
	rules   func() PaymentRules
}

func createPayment[T any, P paymentPtr[T]](ctx context.Context, kind paymentKind, input *NewPayment) (P, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	rules := kind.rules()
	if err := input.validate(ctx, businessId, rules.PartyKind); err != nil {
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

	err = createDocument[T, P](ctx, businessId, kind.module, kind.docType, doc, func(tx *gorm.DB, doc P) error {
		return ApplyAdjustments(tx, doc.reference(), EntryActionCreate, rules.OnCreate(doc.paymentState()))
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func updatePayment[T any, P paymentPtr[T]](ctx context.Context, kind paymentKind, id int, input *NewPayment) (P, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	rules := kind.rules()
	if err := input.validate(ctx, businessId, rules.PartyKind); err != nil {
		return nil, err
	}
	rate, err := resolveRate(ctx, input.CurrencyId, input.CurrencyRate)
	if err != nil {
		return nil, err
	}

	return updateDocument[T, P](ctx, businessId, kind.module, id, nil,
		func(tx *gorm.DB, old P) (P, error) {
			updated := *old
			doc := P(&updated)
			input.applyTo(doc.base(), rate, time.Now().UTC())
			doc.setPartyId(input.PartyId)
			return doc, nil
		},
		func(tx *gorm.DB, old P, new P) error {
			return ApplyAdjustments(tx, new.reference(), EntryActionUpdate, rules.OnUpdate(old.paymentState(), new.paymentState()))
		})
}

func paymentHooks[T any, P paymentPtr[T]](kind paymentKind) documentHooks[P] {
	rules := kind.rules()
	return documentHooks[P]{
		module:  kind.module,
		docType: kind.docType,
		onDelete: func(tx *gorm.DB, doc P) error {
			return ApplyAdjustments(tx, doc.reference(), EntryActionDelete, rules.OnDelete(doc.paymentState()))
		},
		onRestore: func(tx *gorm.DB, doc P) error {
			return ApplyAdjustments(tx, doc.reference(), EntryActionRestore, rules.OnRestore(doc.paymentState()))
		},
	}
}
