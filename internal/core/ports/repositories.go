package ports

import (
	"context"
	"time"

	"github.com/yusinchenn/accessible-shop-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for wallet accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic
// locking; every balance mutation goes through one of them.
type AccountRepository interface {
	// Create provisions an account row. Called by onboarding tooling and
	// tests, never by the wallet operations themselves.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id string, balance decimal.Decimal, updatedAt time.Time) error
	// RecordDailyClaim writes the new balance and the claim timestamp in one
	// statement so the two can never diverge.
	RecordDailyClaim(ctx context.Context, tx pgx.Tx, id string, balance decimal.Decimal, claimedAt time.Time) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
