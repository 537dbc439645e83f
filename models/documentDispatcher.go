package models

import (
	"context"
	"encoding/json"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
)

// newDocumentInput returns an empty input struct for docType.
func newDocumentInput(docType DocumentType) (any, error) {
	switch docType {
	case DocumentTypeCustomerPayment, DocumentTypeSupplierPayment:
		return &NewPayment{}, nil
	case DocumentTypePurchase, DocumentTypePurchaseReturn, DocumentTypeSale:
		return &NewItemizedDocument{}, nil
	case DocumentTypeCreditDebitNote:
		return &NewCreditDebitNote{}, nil
	case DocumentTypeAccountTransfer:
		return &NewAccountTransfer{}, nil
	}
	return nil, utils.NewValidationError("unsupported document type %s", docType)
}

func decodeDocumentInput(docType DocumentType, payload []byte) (any, error) {
	input, err := newDocumentInput(docType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, input); err != nil {
		return nil, utils.NewValidationError("invalid %s payload: %s", docType, err.Error())
	}
	return input, nil
}

// CreateDocument decodes payload into docType's input and creates it.
func CreateDocument(ctx context.Context, docType DocumentType, payload []byte) (any, error) {
	input, err := decodeDocumentInput(docType, payload)
	if err != nil {
		return nil, err
	}
	switch docType {
	case DocumentTypeCustomerPayment:
		return CreateCustomerPayment(ctx, input.(*NewPayment))
	case DocumentTypeSupplierPayment:
		return CreateSupplierPayment(ctx, input.(*NewPayment))
	case DocumentTypePurchase:
		return CreatePurchase(ctx, input.(*NewPurchase))
	case DocumentTypePurchaseReturn:
		return CreatePurchaseReturn(ctx, input.(*NewPurchaseReturn))
	case DocumentTypeSale:
		return CreateSale(ctx, input.(*NewSale))
	case DocumentTypeCreditDebitNote:
		return CreateCreditDebitNote(ctx, input.(*NewCreditDebitNote))
	default:
		return CreateAccountTransfer(ctx, input.(*NewAccountTransfer))
	}
}

func UpdateDocument(ctx context.Context, docType DocumentType, id int, payload []byte) (any, error) {
	input, err := decodeDocumentInput(docType, payload)
	if err != nil {
		return nil, err
	}
	switch docType {
	case DocumentTypeCustomerPayment:
		return UpdateCustomerPayment(ctx, id, input.(*NewPayment))
	case DocumentTypeSupplierPayment:
		return UpdateSupplierPayment(ctx, id, input.(*NewPayment))
	case DocumentTypePurchase:
		return UpdatePurchase(ctx, id, input.(*NewPurchase))
	case DocumentTypePurchaseReturn:
		return UpdatePurchaseReturn(ctx, id, input.(*NewPurchaseReturn))
	case DocumentTypeSale:
		return UpdateSale(ctx, id, input.(*NewSale))
	case DocumentTypeCreditDebitNote:
		return UpdateCreditDebitNote(ctx, id, input.(*NewCreditDebitNote))
	default:
		return UpdateAccountTransfer(ctx, id, input.(*NewAccountTransfer))
	}
}

type documentOp func(ctx context.Context, id int) (any, error)

func op[T any](fn func(context.Context, int) (*T, error)) documentOp {
	return func(ctx context.Context, id int) (any, error) {
		return fn(ctx, id)
	}
}

var (
	deleteOps = map[DocumentType]documentOp{
		DocumentTypeCustomerPayment: op(DeleteCustomerPayment),
		DocumentTypeSupplierPayment: op(DeleteSupplierPayment),
		DocumentTypePurchase:        op(DeletePurchase),
		DocumentTypePurchaseReturn:  op(DeletePurchaseReturn),
		DocumentTypeSale:            op(DeleteSale),
		DocumentTypeCreditDebitNote: op(DeleteCreditDebitNote),
		DocumentTypeAccountTransfer: op(DeleteAccountTransfer),
	}
	restoreOps = map[DocumentType]documentOp{
		DocumentTypeCustomerPayment: op(RestoreCustomerPayment),
		DocumentTypeSupplierPayment: op(RestoreSupplierPayment),
		DocumentTypePurchase:        op(RestorePurchase),
		DocumentTypePurchaseReturn:  op(RestorePurchaseReturn),
		DocumentTypeSale:            op(RestoreSale),
		DocumentTypeCreditDebitNote: op(RestoreCreditDebitNote),
		DocumentTypeAccountTransfer: op(RestoreAccountTransfer),
	}
	forceDeleteOps = map[DocumentType]documentOp{
		DocumentTypeCustomerPayment: op(ForceDeleteCustomerPayment),
		DocumentTypeSupplierPayment: op(ForceDeleteSupplierPayment),
		DocumentTypePurchase:        op(ForceDeletePurchase),
		DocumentTypePurchaseReturn:  op(ForceDeletePurchaseReturn),
		DocumentTypeSale:            op(ForceDeleteSale),
		DocumentTypeCreditDebitNote: op(ForceDeleteCreditDebitNote),
		DocumentTypeAccountTransfer: op(ForceDeleteAccountTransfer),
	}
	getOps = map[DocumentType]documentOp{
		DocumentTypeCustomerPayment: op(GetCustomerPayment),
		DocumentTypeSupplierPayment: op(GetSupplierPayment),
		DocumentTypePurchase:        op(GetPurchase),
		DocumentTypePurchaseReturn:  op(GetPurchaseReturn),
		DocumentTypeSale:            op(GetSale),
		DocumentTypeCreditDebitNote: op(GetCreditDebitNote),
		DocumentTypeAccountTransfer: op(GetAccountTransfer),
	}
)

func runDocumentOp(ops map[DocumentType]documentOp, ctx context.Context, docType DocumentType, id int) (any, error) {
	fn, ok := ops[docType]
	if !ok {
		return nil, utils.NewValidationError("unsupported document type %s", docType)
	}
	return fn(ctx, id)
}

func DeleteDocument(ctx context.Context, docType DocumentType, id int) (any, error) {
	return runDocumentOp(deleteOps, ctx, docType, id)
}

func RestoreDocument(ctx context.Context, docType DocumentType, id int) (any, error) {
	return runDocumentOp(restoreOps, ctx, docType, id)
}

// ForceDeleteDocument permanently removes a document that was already
// soft-deleted.
func ForceDeleteDocument(ctx context.Context, docType DocumentType, id int) (any, error) {
	return runDocumentOp(forceDeleteOps, ctx, docType, id)
}

func GetDocument(ctx context.Context, docType DocumentType, id int) (any, error) {
	return runDocumentOp(getOps, ctx, docType, id)
}

// GetLedgerBalance reads the running balance of any ledger.
func GetLedgerBalance(ctx context.Context, kind LedgerKind, id int) (decimal.Decimal, error) {
	switch kind {
	case LedgerKindAccount:
		return GetAccountBalance(ctx, id)
	case LedgerKindSupplier:
		return GetSupplierBalance(ctx, id)
	case LedgerKindCustomer:
		return GetCustomerBalance(ctx, id)
	}
	return decimal.Zero, utils.NewValidationError("unknown ledger kind %s", kind)
}
