package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WalletService is the wallet ledger core: three mutations, each a single
// atomic transaction against the account store, plus a read-only balance
// query. Caller identity arrives pre-resolved from the token middleware and
// is trusted as-is.
type WalletService interface {
	ClaimDailyReward(ctx context.Context, callerID string) (*ClaimResult, error)
	Debit(ctx context.Context, callerID string, amount decimal.Decimal) (*DebitResult, error)
	CreditByAdmin(ctx context.Context, actor TokenClaims, targetID string, amount decimal.Decimal) (*CreditResult, error)
	GetBalance(ctx context.Context, callerID string) (*BalanceResult, error)
}

// ClaimResult is the outcome of a successful daily reward claim.
type ClaimResult struct {
	WalletBalance decimal.Decimal
	Reward        decimal.Decimal
}

// DebitResult is the outcome of a debit attempt. An insufficient balance is a
// business outcome carried in Success/Message, not an error: the caller can
// branch on it without exception handling.
type DebitResult struct {
	Success       bool
	WalletBalance decimal.Decimal
	Message       string
}

// CreditResult is the outcome of an admin credit.
type CreditResult struct {
	Success       bool
	WalletBalance decimal.Decimal
}

// BalanceResult is the outcome of a balance query.
type BalanceResult struct {
	WalletBalance    decimal.Decimal
	LastDailyClaimAt *time.Time
}

// TokenService validates bearer tokens issued by the external identity
// provider and yields the trusted caller identity.
type TokenService interface {
	Generate(accountID string, admin bool) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed identity claims.
type TokenClaims struct {
	AccountID string
	// Admin mirrors the identity provider's custom admin claim. Whether it
	// is honored depends on the configured AdminPolicy.
	Admin bool
}

// AdminPolicy decides whether an authenticated caller may invoke admin
// operations. The permissive implementation preserves the upstream behavior
// where authentication alone sufficed; stricter policies are selected by
// configuration.
type AdminPolicy interface {
	Authorize(ctx context.Context, actor TokenClaims) error
}
