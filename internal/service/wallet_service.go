package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports"
	"github.com/yusinchenn/accessible-shop-wallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletServiceImpl implements ports.WalletService. Every mutation is a
// single BEGIN / SELECT ... FOR UPDATE / UPDATE / COMMIT sequence, so
// concurrent calls on the same account serialize at the row lock and no
// partial update is ever visible.
type WalletServiceImpl struct {
	accountRepo ports.AccountRepository
	transactor  ports.DBTransactor
	adminPolicy ports.AdminPolicy
	dailyReward decimal.Decimal
	loc         *time.Location
	log         zerolog.Logger

	// now is swapped in tests to pin the calendar day.
	now func() time.Time
}

// NewWalletService creates a new WalletServiceImpl. loc governs the calendar
// day boundary for daily claims; reward is the amount granted per claim.
func NewWalletService(
	accountRepo ports.AccountRepository,
	transactor ports.DBTransactor,
	adminPolicy ports.AdminPolicy,
	reward decimal.Decimal,
	loc *time.Location,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		accountRepo: accountRepo,
		transactor:  transactor,
		adminPolicy: adminPolicy,
		dailyReward: reward,
		loc:         loc,
		log:         log,
		now:         time.Now,
	}
}

// ClaimDailyReward grants the daily login reward at most once per calendar
// day per account.
func (s *WalletServiceImpl) ClaimDailyReward(ctx context.Context, callerID string) (*ports.ClaimResult, error) {
	if callerID == "" {
		return nil, apperror.ErrUnauthenticated()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, callerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	now := s.now()
	if account.HasClaimedOn(now, s.loc) {
		return nil, apperror.ErrAlreadyClaimed()
	}

	newBalance := account.Balance.Add(s.dailyReward)
	if err := s.accountRepo.RecordDailyClaim(ctx, dbTx, account.ID, newBalance, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record daily claim: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("reward", s.dailyReward.String()).
		Str("wallet_balance", newBalance.String()).
		Msg("daily reward claimed")

	return &ports.ClaimResult{
		WalletBalance: newBalance,
		Reward:        s.dailyReward,
	}, nil
}

// Debit spends from the caller's wallet. An insufficient balance rolls the
// transaction back and reports Success=false; it is not an error.
func (s *WalletServiceImpl) Debit(ctx context.Context, callerID string, amount decimal.Decimal) (*ports.DebitResult, error) {
	if callerID == "" {
		return nil, apperror.ErrUnauthenticated()
	}
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, callerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	if account.Balance.LessThan(amount) {
		// Nothing written; the deferred rollback releases the lock.
		return &ports.DebitResult{
			Success:       false,
			WalletBalance: account.Balance,
			Message:       "Insufficient balance",
		}, nil
	}

	newBalance := account.Balance.Sub(amount)
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.ID, newBalance, s.now()); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("amount", amount.String()).
		Str("wallet_balance", newBalance.String()).
		Msg("wallet debited")

	return &ports.DebitResult{
		Success:       true,
		WalletBalance: newBalance,
		Message:       "Payment successful",
	}, nil
}

// CreditByAdmin adjusts a target account's balance by amount. The sign is
// deliberately unchecked: a negative amount debits the target without the
// sufficiency check, matching the behavior this service replaces.
func (s *WalletServiceImpl) CreditByAdmin(ctx context.Context, actor ports.TokenClaims, targetID string, amount decimal.Decimal) (*ports.CreditResult, error) {
	if actor.AccountID == "" {
		return nil, apperror.ErrUnauthenticated()
	}
	if err := s.adminPolicy.Authorize(ctx, actor); err != nil {
		return nil, err
	}
	if targetID == "" {
		return nil, apperror.Validation("userId is required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, targetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	newBalance := account.Balance.Add(amount)
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.ID, newBalance, s.now()); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("actor_id", actor.AccountID).
		Str("account_id", account.ID).
		Str("amount", amount.String()).
		Str("wallet_balance", newBalance.String()).
		Msg("admin credit applied")

	return &ports.CreditResult{
		Success:       true,
		WalletBalance: newBalance,
	}, nil
}

// GetBalance reads the caller's wallet without locking.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, callerID string) (*ports.BalanceResult, error) {
	if callerID == "" {
		return nil, apperror.ErrUnauthenticated()
	}

	account, err := s.accountRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	return &ports.BalanceResult{
		WalletBalance:    account.Balance,
		LastDailyClaimAt: account.LastDailyClaimAt,
	}, nil
}
