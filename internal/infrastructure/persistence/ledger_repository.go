package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/finance"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormTransactionRepository is the GORM implementation of TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)

// FindByID finds a ledger transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var txn finance.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByReference finds all postings for a source document
func (r *GormTransactionRepository) FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]finance.Transaction, error) {
	var txns []finance.Transaction
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("transaction_number ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindByAccountInPeriod finds completed postings for an account in
// chronological order, optionally restricted to one store
func (r *GormTransactionRepository) FindByAccountInPeriod(ctx context.Context, accountID uuid.UUID, storeID *uuid.UUID, from, to time.Time) ([]finance.Transaction, error) {
	var txns []finance.Transaction
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND status = ? AND transaction_date >= ? AND transaction_date <= ?",
			accountID, finance.TransactionStatusCompleted, from, to)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.
		Order("transaction_date ASC, created_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// Save inserts a posting. The ledger is append-only; saving an existing
// transaction is a programming error surfaced by the unique number index.
func (r *GormTransactionRepository) Save(ctx context.Context, txn *finance.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// TrialBalanceLines sums completed postings per account over a period,
// optionally restricted to one store
func (r *GormTransactionRepository) TrialBalanceLines(ctx context.Context, storeID *uuid.UUID, from, to time.Time) ([]finance.TrialBalanceLine, error) {
	var lines []finance.TrialBalanceLine
	query := r.db.WithContext(ctx).
		Model(&finance.Transaction{}).
		Select(`ledger_accounts.id AS account_id,
			ledger_accounts.code AS account_code,
			ledger_accounts.name AS account_name,
			ledger_accounts.type AS account_type,
			COALESCE(SUM(CASE WHEN ledger_transactions.direction = 'debit' THEN ledger_transactions.amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN ledger_transactions.direction = 'credit' THEN ledger_transactions.amount ELSE 0 END), 0) AS total_credit`).
		Joins("JOIN ledger_accounts ON ledger_accounts.id = ledger_transactions.account_id").
		Where("ledger_transactions.status = ?", finance.TransactionStatusCompleted).
		Where("ledger_transactions.transaction_date >= ? AND ledger_transactions.transaction_date <= ?", from, to)
	if storeID != nil {
		query = query.Where("ledger_transactions.store_id = ?", *storeID)
	}
	err := query.
		Group("ledger_accounts.id, ledger_accounts.code, ledger_accounts.name, ledger_accounts.type").
		Order("ledger_accounts.code ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// AccountBalanceBefore nets completed postings prior to the cutoff
// (debits minus credits)
func (r *GormTransactionRepository) AccountBalanceBefore(ctx context.Context, accountID uuid.UUID, storeID *uuid.UUID, cutoff time.Time) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := r.db.WithContext(ctx).
		Model(&finance.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN direction = 'debit' THEN amount ELSE -amount END), 0)").
		Where("account_id = ? AND status = ? AND transaction_date < ?",
			accountID, finance.TransactionStatusCompleted, cutoff)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	err := query.Scan(&balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// GormAccountRepository is the GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

var _ finance.AccountRepository = (*GormAccountRepository)(nil)

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Account, error) {
	var account finance.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByCode finds an account by its code
func (r *GormAccountRepository) FindByCode(ctx context.Context, code string) (*finance.Account, error) {
	var account finance.Account
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// Well-known account codes. Store cash accounts append the store ID.
const (
	AccountCodeCashPrefix   = "1000-CASH"
	AccountCodeSalesRevenue = "4000-SALES"
)

// GormAccountDirectory resolves refund posting accounts by well-known
// codes. A store without its own cash account falls back to the company
// cash account.
type GormAccountDirectory struct {
	accounts finance.AccountRepository
}

// NewGormAccountDirectory creates a GormAccountDirectory
func NewGormAccountDirectory(accounts finance.AccountRepository) *GormAccountDirectory {
	return &GormAccountDirectory{accounts: accounts}
}

var _ finance.AccountDirectory = (*GormAccountDirectory)(nil)

// CashAccountFor resolves the cash account for a store
func (d *GormAccountDirectory) CashAccountFor(ctx context.Context, storeID uuid.UUID) (*finance.Account, error) {
	account, err := d.accounts.FindByCode(ctx, fmt.Sprintf("%s-%s", AccountCodeCashPrefix, storeID))
	if errors.Is(err, shared.ErrNotFound) {
		return d.accounts.FindByCode(ctx, AccountCodeCashPrefix)
	}
	return account, err
}

// SalesRevenueAccount resolves the company sales revenue account
func (d *GormAccountDirectory) SalesRevenueAccount(ctx context.Context) (*finance.Account, error) {
	return d.accounts.FindByCode(ctx, AccountCodeSalesRevenue)
}
