package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmdatafocus/erp_backend/utils"
)

// LedgerKind names the three balance-bearing entities.
type LedgerKind string

const (
	LedgerKindAccount  LedgerKind = "Account"
	LedgerKindCustomer LedgerKind = "Customer"
	LedgerKindSupplier LedgerKind = "Supplier"
)

var ledgerKindSlugs = map[string]LedgerKind{
	"accounts":  LedgerKindAccount,
	"customers": LedgerKindCustomer,
	"suppliers": LedgerKindSupplier,
}

// LedgerKindFromSlug maps a URL path segment onto a ledger kind.
func LedgerKindFromSlug(slug string) (LedgerKind, error) {
	k, ok := ledgerKindSlugs[slug]
	if !ok {
		return "", fmt.Errorf("%w: unknown ledger kind %q", utils.ErrorRecordNotFound, slug)
	}
	return k, nil
}

// DocumentType is the short code stored on ledger entries and outbox rows.
type DocumentType string

const (
	DocumentTypeCustomerPayment DocumentType = "CP"
	DocumentTypeSupplierPayment DocumentType = "SP"
	DocumentTypePurchase        DocumentType = "PU"
	DocumentTypePurchaseReturn  DocumentType = "PR"
	DocumentTypeCreditDebitNote DocumentType = "CDN"
	DocumentTypeAccountTransfer DocumentType = "AT"
	DocumentTypeSale            DocumentType = "SL"
	DocumentTypeSetup           DocumentType = "SET"
)

var documentTypeSlugs = map[string]DocumentType{
	"customer-payments":  DocumentTypeCustomerPayment,
	"supplier-payments":  DocumentTypeSupplierPayment,
	"purchases":          DocumentTypePurchase,
	"purchase-returns":   DocumentTypePurchaseReturn,
	"credit-debit-notes": DocumentTypeCreditDebitNote,
	"account-transfers":  DocumentTypeAccountTransfer,
	"sales":              DocumentTypeSale,
}

// DocumentTypeFromSlug maps a URL path segment onto a document type.
func DocumentTypeFromSlug(slug string) (DocumentType, error) {
	t, ok := documentTypeSlugs[slug]
	if !ok {
		return "", fmt.Errorf("%w: unknown document type %q", utils.ErrorRecordNotFound, slug)
	}
	return t, nil
}

// codePrefix is prepended to the reserved sequence number.
func (t DocumentType) codePrefix() string {
	switch t {
	case DocumentTypeCustomerPayment:
		return "CP-"
	case DocumentTypeSupplierPayment:
		return "SP-"
	case DocumentTypePurchase:
		return "PU-"
	case DocumentTypePurchaseReturn:
		return "PR-"
	case DocumentTypeCreditDebitNote:
		return "NT-"
	case DocumentTypeAccountTransfer:
		return "AT-"
	case DocumentTypeSale:
		return "SL-"
	}
	return string(t) + "-"
}

type NoteType string

const (
	NoteTypeCredit NoteType = "Credit"
	NoteTypeDebit  NoteType = "Debit"
)

func (t *NoteType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("note type must be string")
	}
	switch str {
	case "Credit":
		*t = NoteTypeCredit
	case "Debit":
		*t = NoteTypeDebit
	default:
		return errors.New("invalid note type")
	}
	return nil
}

type PartyType string

const (
	PartyTypeCustomer PartyType = "Customer"
	PartyTypeSupplier PartyType = "Supplier"
)

func (t *PartyType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("party type must be string")
	}
	switch str {
	case "Customer":
		*t = PartyTypeCustomer
	case "Supplier":
		*t = PartyTypeSupplier
	default:
		return errors.New("invalid party type")
	}
	return nil
}

func (t PartyType) ledgerKind() LedgerKind {
	if t == PartyTypeSupplier {
		return LedgerKindSupplier
	}
	return LedgerKindCustomer
}

// EntryAction records which lifecycle event produced a ledger entry or an
// outbox row.
type EntryAction string

const (
	EntryActionCreate      EntryAction = "C"
	EntryActionUpdate      EntryAction = "U"
	EntryActionDelete      EntryAction = "D"
	EntryActionRestore     EntryAction = "R"
	EntryActionForceDelete EntryAction = "F"
)
