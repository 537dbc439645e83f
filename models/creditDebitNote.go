package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditDebitNote adjusts a customer's or supplier's balance without
// moving cash or goods.
type CreditDebitNote struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id"`
	Code            string          `gorm:"size:100;not null;index" json:"code"`
	SequenceNo      int64           `gorm:"not null" json:"sequence_no"`
	PartyType       PartyType       `gorm:"size:20;not null" json:"party_type"`
	PartyId         int             `gorm:"index;not null" json:"party_id"`
	NoteType        NoteType        `gorm:"size:20;not null" json:"note_type"`
	NoteDate        time.Time       `gorm:"index;not null" json:"note_date"`
	CurrencyId      int             `gorm:"not null;default:0" json:"currency_id"`
	CurrencyRate    decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"currency_rate"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	AmountUsd       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_usd"`
	ReferenceNumber string          `gorm:"size:255" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`
	BalancePosting
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

type NewCreditDebitNote struct {
	PartyType       PartyType       `json:"party_type" validate:"required,oneof=Customer Supplier"`
	PartyId         int             `json:"party_id" validate:"required,gt=0"`
	NoteType        NoteType        `json:"note_type" validate:"required,oneof=Credit Debit"`
	NoteDate        time.Time       `json:"note_date" validate:"required"`
	CurrencyId      int             `json:"currency_id" validate:"gte=0"`
	CurrencyRate    decimal.Decimal `json:"currency_rate"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"reference_number" validate:"max=255"`
	Notes           string          `json:"notes"`
}

const creditDebitNoteModule = "CreditDebitNote"

func (n CreditDebitNote) reference() DocumentReference {
	return DocumentReference{BusinessId: n.BusinessId, Type: DocumentTypeCreditDebitNote, Id: n.ID, Code: n.Code}
}

func (n CreditDebitNote) documentDate() time.Time { return n.NoteDate }

func (n CreditDebitNote) isDeleted() bool { return n.DeletedAt.Valid }

func (n *CreditDebitNote) assignCode(code string, sequenceNo int64) {
	n.Code = code
	n.SequenceNo = sequenceNo
}

func (n CreditDebitNote) state() CreditDebitNoteState {
	return CreditDebitNoteState{
		PartyType: n.PartyType,
		PartyId:   n.PartyId,
		NoteType:  n.NoteType,
		AmountUsd: n.AmountUsd,
		Date:      n.NoteDate,
	}
}

func (input *NewCreditDebitNote) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Amount.IsPositive() {
		return utils.NewValidationError("amount must be positive")
	}
	if input.PartyType == PartyTypeSupplier {
		if err := utils.ValidateResourceId[Supplier](ctx, businessId, input.PartyId); err != nil {
			return utils.NewValidationError("supplier not found")
		}
		return nil
	}
	if err := utils.ValidateResourceId[Customer](ctx, businessId, input.PartyId); err != nil {
		return utils.NewValidationError("customer not found")
	}
	return nil
}

func (input *NewCreditDebitNote) applyTo(n *CreditDebitNote, rate decimal.Decimal) {
	n.PartyType = input.PartyType
	n.PartyId = input.PartyId
	n.NoteType = input.NoteType
	n.NoteDate = input.NoteDate
	n.CurrencyId = input.CurrencyId
	n.CurrencyRate = rate
	n.Amount = input.Amount
	n.AmountUsd = ToBaseAmount(input.Amount, rate)
	n.ReferenceNumber = input.ReferenceNumber
	n.Notes = input.Notes
}

var creditDebitNoteHooks = documentHooks[*CreditDebitNote]{
	module:  creditDebitNoteModule,
	docType: DocumentTypeCreditDebitNote,
	onDelete: func(tx *gorm.DB, n *CreditDebitNote) error {
		if n.BalanceUnposted {
			return nil
		}
		return ApplyAdjustments(tx, n.reference(), EntryActionDelete, CreditDebitNoteOnDelete(n.state()))
	},
	onRestore: func(tx *gorm.DB, n *CreditDebitNote) error {
		if n.BalanceUnposted {
			return nil
		}
		return ApplyAdjustments(tx, n.reference(), EntryActionRestore, CreditDebitNoteOnRestore(n.state()))
	},
}

func CreateCreditDebitNote(ctx context.Context, input *NewCreditDebitNote) (*CreditDebitNote, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}
	rate, err := resolveRate(ctx, input.CurrencyId, input.CurrencyRate)
	if err != nil {
		return nil, err
	}

	note := CreditDebitNote{BusinessId: businessId}
	input.applyTo(&note, rate)
	err = createDocument[CreditDebitNote](ctx, businessId, creditDebitNoteModule, DocumentTypeCreditDebitNote, &note,
		func(tx *gorm.DB, n *CreditDebitNote) error {
			return ApplyAdjustments(tx, n.reference(), EntryActionCreate, CreditDebitNoteOnCreate(n.state()))
		})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func UpdateCreditDebitNote(ctx context.Context, id int, input *NewCreditDebitNote) (*CreditDebitNote, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}
	rate, err := resolveRate(ctx, input.CurrencyId, input.CurrencyRate)
	if err != nil {
		return nil, err
	}

	return updateDocument[CreditDebitNote](ctx, businessId, creditDebitNoteModule, id, nil,
		func(tx *gorm.DB, old *CreditDebitNote) (*CreditDebitNote, error) {
			updated := *old
			input.applyTo(&updated, rate)
			return &updated, nil
		},
		func(tx *gorm.DB, old *CreditDebitNote, new *CreditDebitNote) error {
			if old.BalanceUnposted {
				return nil
			}
			return ApplyAdjustments(tx, new.reference(), EntryActionUpdate, CreditDebitNoteOnUpdate(old.state(), new.state()))
		})
}

func DeleteCreditDebitNote(ctx context.Context, id int) (*CreditDebitNote, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return softDeleteDocument[CreditDebitNote](ctx, businessId, id, creditDebitNoteHooks)
}

func RestoreCreditDebitNote(ctx context.Context, id int) (*CreditDebitNote, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return restoreDocument[CreditDebitNote](ctx, businessId, id, creditDebitNoteHooks)
}

func ForceDeleteCreditDebitNote(ctx context.Context, id int) (*CreditDebitNote, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return forceDeleteDocument[CreditDebitNote](ctx, businessId, id, creditDebitNoteHooks)
}

func GetCreditDebitNote(ctx context.Context, id int) (*CreditDebitNote, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[CreditDebitNote](ctx, businessId, id)
}
