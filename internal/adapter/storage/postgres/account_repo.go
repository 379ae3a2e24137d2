package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yusinchenn/accessible-shop-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account into the database.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, balance, last_daily_claim_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Balance, a.LastDailyClaimAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by ID (without locking).
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT id, balance, last_daily_claim_at, created_at, updated_at
		FROM accounts WHERE id = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Balance, &a.LastDailyClaimAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByIDForUpdate fetches an account by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	query := `SELECT id, balance, last_daily_claim_at, created_at, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE`

	a := &domain.Account{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Balance, &a.LastDailyClaimAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// UpdateBalance writes a new balance within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, balance, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}

// RecordDailyClaim writes the post-claim balance and the claim timestamp in a
// single statement within a transaction.
func (r *AccountRepo) RecordDailyClaim(ctx context.Context, tx pgx.Tx, id string, balance decimal.Decimal, claimedAt time.Time) error {
	query := `UPDATE accounts SET balance = $1, last_daily_claim_at = $2, updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, balance, claimedAt, id)
	if err != nil {
		return fmt.Errorf("record daily claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}
