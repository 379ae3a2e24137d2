package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yusinchenn/accessible-shop-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id string, balance decimal.Decimal, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account not found: %s", id)
	}
	a.Balance = balance
	a.UpdatedAt = updatedAt
	return nil
}

func (r *inMemoryAccountRepo) RecordDailyClaim(ctx context.Context, tx pgx.Tx, id string, balance decimal.Decimal, claimedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account not found: %s", id)
	}
	a.Balance = balance
	t := claimedAt
	a.LastDailyClaimAt = &t
	a.UpdatedAt = claimedAt
	return nil
}

// --- In-Memory Transactor ---

// lockingTransactor holds a global mutex from Begin until Commit or
// Rollback, mirroring the serialization a row lock provides. Needed so
// concurrent read-modify-write cycles behave like they do against Postgres.
type lockingTransactor struct {
	mu sync.Mutex
}

func newLockingTransactor() *lockingTransactor {
	return &lockingTransactor{}
}

func (t *lockingTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockTx{release: &t.mu}, nil
}

// lockTx releases the transactor mutex exactly once, on whichever of
// Commit or Rollback runs first. Services call Commit and then a deferred
// Rollback, so double release must be a no-op.
type lockTx struct {
	noopTx
	release *sync.Mutex
	once    sync.Once
}

func (t *lockTx) Commit(ctx context.Context) error {
	t.once.Do(t.release.Unlock)
	return nil
}

func (t *lockTx) Rollback(ctx context.Context) error {
	t.once.Do(t.release.Unlock)
	return nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
