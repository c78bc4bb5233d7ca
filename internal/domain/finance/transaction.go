package finance

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// AccountType classifies ledger accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// IsValid checks if the account type is known
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Account is a ledger account
type Account struct {
	shared.BaseEntity
	Code     string
	Name     string
	Type     AccountType
	StoreID  *uuid.UUID // nil for company-wide accounts
	IsActive bool
}

// NewAccount creates a ledger account
func NewAccount(code, name string, accountType AccountType, storeID *uuid.UUID) (*Account, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Unknown account type %q", accountType))
	}
	return &Account{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Type:       accountType,
		StoreID:    storeID,
		IsActive:   true,
	}, nil
}

// EntryDirection is the side of the ledger an entry posts to
type EntryDirection string

const (
	EntryDebit  EntryDirection = "debit"
	EntryCredit EntryDirection = "credit"
)

// IsValid checks if the direction is known
func (d EntryDirection) IsValid() bool {
	return d == EntryDebit || d == EntryCredit
}

// TransactionStatus is the posting status of a ledger transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionMetadata carries source-document context on a posting
type TransactionMetadata struct {
	RefundMethod string    `json:"refund_method,omitempty"`
	RefundID     uuid.UUID `json:"refund_id,omitempty"`
	ReturnID     uuid.UUID `json:"return_id,omitempty"`
}

// Value implements driver.Valuer, storing the metadata as JSON
func (m TransactionMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *TransactionMetadata) Scan(value any) error {
	if value == nil {
		*m = TransactionMetadata{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into TransactionMetadata", value)
	}
}

// Transaction is an immutable ledger posting. Corrections are made with
// offsetting entries, never by mutating a posted row.
type Transaction struct {
	shared.BaseEntity
	TransactionNumber string
	AccountID         uuid.UUID
	StoreID           uuid.UUID
	Direction         EntryDirection
	Amount            decimal.Decimal
	Currency          string
	Status            TransactionStatus
	Description       string
	Metadata          TransactionMetadata
	ReferenceType     string
	ReferenceID       uuid.UUID
	TransactionDate   time.Time
	RecordedBy        uuid.UUID
}

// NewTransaction creates a completed ledger posting dated transactionDate.
// Entries belonging to one business event must be given the same date.
func NewTransaction(
	transactionNumber string,
	accountID uuid.UUID,
	storeID uuid.UUID,
	direction EntryDirection,
	amount decimal.Decimal,
	currency string,
	description string,
	metadata TransactionMetadata,
	referenceType string,
	referenceID uuid.UUID,
	transactionDate time.Time,
	recordedBy uuid.UUID,
) (*Transaction, error) {
	if transactionNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Unknown entry direction %q", direction))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Recording user ID cannot be empty")
	}

	return &Transaction{
		BaseEntity:        shared.NewBaseEntity(),
		TransactionNumber: transactionNumber,
		AccountID:         accountID,
		StoreID:           storeID,
		Direction:         direction,
		Amount:            amount,
		Currency:          currency,
		Status:            TransactionStatusCompleted,
		Description:       description,
		Metadata:          metadata,
		ReferenceType:     referenceType,
		ReferenceID:       referenceID,
		TransactionDate:   transactionDate,
		RecordedBy:        recordedBy,
	}, nil
}

// NewTransactionNumber generates a TXN-YYYYMMDD-XXXXXXXX identifier with a
// random 8-char uppercase hex suffix.
func NewTransactionNumber(t time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("TXN-%s-%08X", t.Format("20060102"), t.UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("TXN-%s-%s", t.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

// RefundPostingPair is the balanced pair of ledger entries produced by a
// completed refund: a credit against the store's cash account and a debit
// against sales revenue, both for the refund amount.
type RefundPostingPair struct {
	CashEntry    *Transaction
	RevenueEntry *Transaction
}

// NewRefundPostingPair builds the two postings for a completed refund.
// Both entries share a base transaction number with -CASH and -REV
// suffixes so the pairing is visible in the ledger.
func NewRefundPostingPair(
	refund *Refund,
	cashAccountID, revenueAccountID uuid.UUID,
	recordedBy uuid.UUID,
) (*RefundPostingPair, error) {
	if refund == nil {
		return nil, shared.NewDomainError("INVALID_REFUND", "Refund cannot be nil")
	}
	if !refund.IsCompleted() {
		return nil, shared.NewDomainError("INVALID_REFUND_STATE", "Only completed refunds post to the ledger")
	}

	// One timestamp for the pair so both entries carry the same
	// transaction date.
	now := time.Now()
	base := NewTransactionNumber(now)
	metadata := TransactionMetadata{
		RefundMethod: string(refund.Method),
		RefundID:     refund.ID,
		ReturnID:     refund.ReturnID,
	}

	cash, err := NewTransaction(
		base+"-CASH",
		cashAccountID,
		refund.StoreID,
		EntryCredit,
		refund.Amount,
		string(refund.Currency),
		fmt.Sprintf("Refund %s disbursement", refund.RefundNumber),
		metadata,
		"refund",
		refund.ID,
		now,
		recordedBy,
	)
	if err != nil {
		return nil, err
	}

	revenue, err := NewTransaction(
		base+"-REV",
		revenueAccountID,
		refund.StoreID,
		EntryDebit,
		refund.Amount,
		string(refund.Currency),
		fmt.Sprintf("Refund %s revenue reversal", refund.RefundNumber),
		metadata,
		"refund",
		refund.ID,
		now,
		recordedBy,
	)
	if err != nil {
		return nil, err
	}

	return &RefundPostingPair{CashEntry: cash, RevenueEntry: revenue}, nil
}

// Entries returns both postings in posting order
func (p *RefundPostingPair) Entries() []*Transaction {
	return []*Transaction{p.CashEntry, p.RevenueEntry}
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "ledger_transactions"
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "ledger_accounts"
}
