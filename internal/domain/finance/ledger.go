package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum debit/credit discrepancy still treated
// as balanced, absorbing rounding at cent granularity.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// TrialBalanceLine is the per-account row of a trial balance
type TrialBalanceLine struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// NetBalance returns debits minus credits for the account
func (l TrialBalanceLine) NetBalance() decimal.Decimal {
	return l.TotalDebit.Sub(l.TotalCredit)
}

// TrialBalance summarizes completed postings over a period
type TrialBalance struct {
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Difference  decimal.Decimal    `json:"difference"`
	InBalance   bool               `json:"in_balance"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// NewTrialBalance folds account lines into a trial balance report
func NewTrialBalance(periodStart, periodEnd time.Time, lines []TrialBalanceLine) *TrialBalance {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.TotalDebit)
		totalCredit = totalCredit.Add(line.TotalCredit)
	}
	diff := totalDebit.Sub(totalCredit)

	return &TrialBalance{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Lines:       lines,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  diff,
		InBalance:   diff.Abs().LessThanOrEqual(BalanceTolerance),
		GeneratedAt: time.Now(),
	}
}

// LedgerEntry is one row of an account's running ledger
type LedgerEntry struct {
	TransactionID     uuid.UUID       `json:"transaction_id"`
	TransactionNumber string          `json:"transaction_number"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Description       string          `json:"description"`
	Direction         EntryDirection  `json:"direction"`
	Amount            decimal.Decimal `json:"amount"`
	RunningBalance    decimal.Decimal `json:"running_balance"`
	ReferenceType     string          `json:"reference_type,omitempty"`
	ReferenceID       uuid.UUID       `json:"reference_id,omitempty"`
}

// AccountLedger is the chronological statement of one account
type AccountLedger struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Entries        []LedgerEntry   `json:"entries"`
}

// BuildAccountLedger folds transactions into a running-balance ledger.
// Transactions must be in chronological order. Debits add, credits
// subtract, regardless of account type; sign interpretation is left to
// the reader of the statement.
func BuildAccountLedger(
	account *Account,
	periodStart, periodEnd time.Time,
	openingBalance decimal.Decimal,
	transactions []Transaction,
) *AccountLedger {
	ledger := &AccountLedger{
		AccountID:      account.ID,
		AccountCode:    account.Code,
		AccountName:    account.Name,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		OpeningBalance: openingBalance,
		Entries:        make([]LedgerEntry, 0, len(transactions)),
	}

	balance := openingBalance
	for _, txn := range transactions {
		if txn.Direction == EntryDebit {
			balance = balance.Add(txn.Amount)
		} else {
			balance = balance.Sub(txn.Amount)
		}
		ledger.Entries = append(ledger.Entries, LedgerEntry{
			TransactionID:     txn.ID,
			TransactionNumber: txn.TransactionNumber,
			TransactionDate:   txn.TransactionDate,
			Description:       txn.Description,
			Direction:         txn.Direction,
			Amount:            txn.Amount,
			RunningBalance:    balance,
			ReferenceType:     txn.ReferenceType,
			ReferenceID:       txn.ReferenceID,
		})
	}
	ledger.ClosingBalance = balance

	return ledger
}
