package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountTransfer moves money between two accounts, possibly across
// currencies.
type AccountTransfer struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id"`
	Code            string          `gorm:"size:100;not null;index" json:"code"`
	SequenceNo      int64           `gorm:"not null" json:"sequence_no"`
	FromAccountId   int             `gorm:"index;not null" json:"from_account_id"`
	ToAccountId     int             `gorm:"index;not null" json:"to_account_id"`
	TransferDate    time.Time       `gorm:"index;not null" json:"transfer_date"`
	CurrencyRate    decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"currency_rate"`
	SentAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sent_amount"`
	ReceivedAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"received_amount"`
	ReferenceNumber string          `gorm:"size:255" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`
	BalancePosting
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

// NewAccountTransfer leaves ReceivedAmount zero to receive SentAmount
// converted at CurrencyRate.
type NewAccountTransfer struct {
	FromAccountId   int             `json:"from_account_id" validate:"required,gt=0"`
	ToAccountId     int             `json:"to_account_id" validate:"required,gt=0,nefield=FromAccountId"`
	TransferDate    time.Time       `json:"transfer_date" validate:"required"`
	CurrencyRate    decimal.Decimal `json:"currency_rate"`
	SentAmount      decimal.Decimal `json:"sent_amount"`
	ReceivedAmount  decimal.Decimal `json:"received_amount"`
	ReferenceNumber string          `json:"reference_number" validate:"max=255"`
	Notes           string          `json:"notes"`
}

const accountTransferModule = "AccountTransfer"

func (t AccountTransfer) reference() DocumentReference {
	return DocumentReference{BusinessId: t.BusinessId, Type: DocumentTypeAccountTransfer, Id: t.ID, Code: t.Code}
}

func (t AccountTransfer) documentDate() time.Time { return t.TransferDate }

func (t AccountTransfer) isDeleted() bool { return t.DeletedAt.Valid }

func (t *AccountTransfer) assignCode(code string, sequenceNo int64) {
	t.Code = code
	t.SequenceNo = sequenceNo
}

func (t AccountTransfer) state() AccountTransferState {
	return AccountTransferState{
		FromAccountId:  t.FromAccountId,
		ToAccountId:    t.ToAccountId,
		SentAmount:     t.SentAmount,
		ReceivedAmount: t.ReceivedAmount,
		Date:           t.TransferDate,
	}
}

func (input *NewAccountTransfer) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.SentAmount.IsPositive() {
		return utils.NewValidationError("sent amount must be positive")
	}
	if input.ReceivedAmount.IsNegative() {
		return utils.NewValidationError("received amount cannot be negative")
	}
	if input.CurrencyRate.IsNegative() {
		return utils.NewValidationError("currency rate cannot be negative")
	}
	if err := utils.ValidateResourcesId[Account](ctx, businessId, []int{input.FromAccountId, input.ToAccountId}); err != nil {
		return utils.NewValidationError("account not found")
	}
	return nil
}

func (input *NewAccountTransfer) applyTo(t *AccountTransfer) {
	rate := input.CurrencyRate
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(1)
	}
	received := input.ReceivedAmount
	if received.IsZero() {
		received = ToBaseAmount(input.SentAmount, rate)
	}
	t.FromAccountId = input.FromAccountId
	t.ToAccountId = input.ToAccountId
	t.TransferDate = input.TransferDate
	t.CurrencyRate = rate
	t.SentAmount = input.SentAmount
	t.ReceivedAmount = received
	t.ReferenceNumber = input.ReferenceNumber
	t.Notes = input.Notes
}

var accountTransferHooks = documentHooks[*AccountTransfer]{
	module:  accountTransferModule,
	docType: DocumentTypeAccountTransfer,
	onDelete: func(tx *gorm.DB, t *AccountTransfer) error {
		if t.BalanceUnposted {
			return nil
		}
		return ApplyAdjustments(tx, t.reference(), EntryActionDelete, AccountTransferOnDelete(t.state()))
	},
	onRestore: func(tx *gorm.DB, t *AccountTransfer) error {
		if t.BalanceUnposted {
			return nil
		}
		return ApplyAdjustments(tx, t.reference(), EntryActionRestore, AccountTransferOnRestore(t.state()))
	},
}

func CreateAccountTransfer(ctx context.Context, input *NewAccountTransfer) (*AccountTransfer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	transfer := AccountTransfer{BusinessId: businessId}
	input.applyTo(&transfer)
	err = createDocument[AccountTransfer](ctx, businessId, accountTransferModule, DocumentTypeAccountTransfer, &transfer,
		func(tx *gorm.DB, t *AccountTransfer) error {
			return ApplyAdjustments(tx, t.reference(), EntryActionCreate, AccountTransferOnCreate(t.state()))
		})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func UpdateAccountTransfer(ctx context.Context, id int, input *NewAccountTransfer) (*AccountTransfer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	return updateDocument[AccountTransfer](ctx, businessId, accountTransferModule, id, nil,
		func(tx *gorm.DB, old *AccountTransfer) (*AccountTransfer, error) {
			updated := *old
			input.applyTo(&updated)
			return &updated, nil
		},
		func(tx *gorm.DB, old *AccountTransfer, new *AccountTransfer) error {
			if old.BalanceUnposted {
				return nil
			}
			return ApplyAdjustments(tx, new.reference(), EntryActionUpdate, AccountTransferOnUpdate(old.state(), new.state()))
		})
}

func DeleteAccountTransfer(ctx context.Context, id int) (*AccountTransfer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return softDeleteDocument[AccountTransfer](ctx, businessId, id, accountTransferHooks)
}

func RestoreAccountTransfer(ctx context.Context, id int) (*AccountTransfer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return restoreDocument[AccountTransfer](ctx, businessId, id, accountTransferHooks)
}

func ForceDeleteAccountTransfer(ctx context.Context, id int) (*AccountTransfer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return forceDeleteDocument[AccountTransfer](ctx, businessId, id, accountTransferHooks)
}

func GetAccountTransfer(ctx context.Context, id int) (*AccountTransfer, error) {
	businessId, err := utils.RequireBusinessId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[AccountTransfer](ctx, businessId, id)
}
