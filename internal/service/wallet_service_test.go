package service

import (
	"context"
	"testing"
	"time"

	"github.com/yusinchenn/accessible-shop-wallet/internal/core/domain"
	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports"
	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports/mocks"
	"github.com/yusinchenn/accessible-shop-wallet/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc         *WalletServiceImpl
	accountRepo *mocks.MockAccountRepository
	transactor  *mocks.MockDBTransactor
	adminPolicy *mocks.MockAdminPolicy
	ctrl        *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		adminPolicy: mocks.NewMockAdminPolicy(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewWalletService(
		d.accountRepo, d.transactor, d.adminPolicy,
		decimal.NewFromFloat(1.0), time.UTC, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// decimalMatcher compares decimals by value, ignoring exponent representation.
type decimalMatcher struct{ want decimal.Decimal }

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string { return "decimal " + m.want.String() }

func decEq(s string) gomock.Matcher { return decimalMatcher{want: dec(s)} }

// ==================== ClaimDailyReward Tests ====================

func TestWalletService_ClaimDailyReward_FirstClaim(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return now }

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-1").Return(&domain.Account{
		ID:      "uid-1",
		Balance: decimal.Zero,
	}, nil)
	d.accountRepo.EXPECT().RecordDailyClaim(ctx, tx, "uid-1", decEq("1"), now).Return(nil)

	result, err := d.svc.ClaimDailyReward(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.WalletBalance.Equal(dec("1")))
	assert.True(t, result.Reward.Equal(dec("1")))
}

func TestWalletService_ClaimDailyReward_AlreadyClaimedToday(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	lastClaim := time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return now }

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-1").Return(&domain.Account{
		ID:               "uid-1",
		Balance:          dec("5"),
		LastDailyClaimAt: &lastClaim,
	}, nil)
	// No write expected: balance must stay untouched.

	result, err := d.svc.ClaimDailyReward(ctx, "uid-1")
	assert.Nil(t, result)
	assertAppError(t, err, "WAL_003")
}

func TestWalletService_ClaimDailyReward_NewDayAfterMidnight(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	// Claimed 23:59, claiming again 00:01 the next day: allowed by the
	// day-boundary rule even though only two minutes passed.
	lastClaim := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return now }

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-1").Return(&domain.Account{
		ID:               "uid-1",
		Balance:          dec("3"),
		LastDailyClaimAt: &lastClaim,
	}, nil)
	d.accountRepo.EXPECT().RecordDailyClaim(ctx, tx, "uid-1", decEq("4"), now).Return(nil)

	result, err := d.svc.ClaimDailyReward(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, result.WalletBalance.Equal(dec("4")))
}

func TestWalletService_ClaimDailyReward_ConsecutiveDays(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	balance := decimal.Zero
	var lastClaim *time.Time

	const days = 5
	for i := 0; i < days; i++ {
		now := time.Date(2024, 3, 10+i, 8, 0, 0, 0, time.UTC)
		d.svc.now = func() time.Time { return now }

		account := &domain.Account{ID: "uid-1", Balance: balance, LastDailyClaimAt: lastClaim}
		expected := balance.Add(dec("1"))

		d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
		d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-1").Return(account, nil)
		d.accountRepo.EXPECT().RecordDailyClaim(ctx, tx, "uid-1", decimalMatcher{want: expected}, now).Return(nil)

		result, err := d.svc.ClaimDailyReward(ctx, "uid-1")
		require.NoError(t, err)
		assert.True(t, result.WalletBalance.Equal(expected))

		balance = expected
		claimed := now
		lastClaim = &claimed
	}

	assert.True(t, balance.Equal(dec("5")), "N days of claims add N rewards")
}

func TestWalletService_ClaimDailyReward_AccountNotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "ghost").Return(nil, nil)

	result, err := d.svc.ClaimDailyReward(ctx, "ghost")
	assert.Nil(t, result)
	assertAppError(t, err, "WAL_001")
}

func TestWalletService_ClaimDailyReward_Unauthenticated(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.ClaimDailyReward(context.Background(), "")
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_001")
}

// ==================== Debit Tests ====================

func TestWalletService_Debit_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return now }

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-1").Return(&domain.Account{
		ID:      "uid-1",
		Balance: dec("1"),
	}, nil)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "uid-1", decEq("0.5"), now).Return(nil)

	result, err := d.svc.Debit(ctx, "uid-1", dec("0.5"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.WalletBalance.Equal(dec("0.5")))
	assert.Equal(t, "Payment successful", result.Message)
}

func TestWalletService_Debit_InsufficientBalance(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-1").Return(&domain.Account{
		ID:      "uid-1",
		Balance: dec("0.5"),
	}, nil)
	// No UpdateBalance expected.

	result, err := d.svc.Debit(ctx, "uid-1", dec("1"))
	require.NoError(t, err, "insufficient balance is a business outcome, not an error")
	assert.False(t, result.Success)
	assert.True(t, result.WalletBalance.Equal(dec("0.5")), "balance reported unchanged")
	assert.Equal(t, "Insufficient balance", result.Message)
}

func TestWalletService_Debit_ExactBalance(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return now }

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-1").Return(&domain.Account{
		ID:      "uid-1",
		Balance: dec("2.5"),
	}, nil)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "uid-1", decEq("0"), now).Return(nil)

	result, err := d.svc.Debit(ctx, "uid-1", dec("2.5"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.WalletBalance.IsZero())
}

func TestWalletService_Debit_InvalidAmount(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	for _, amount := range []decimal.Decimal{decimal.Zero, dec("-1")} {
		result, err := d.svc.Debit(context.Background(), "uid-1", amount)
		assert.Nil(t, result)
		assertAppError(t, err, "WAL_002")
	}
}

func TestWalletService_Debit_AccountNotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "ghost").Return(nil, nil)

	result, err := d.svc.Debit(ctx, "ghost", dec("1"))
	assert.Nil(t, result)
	assertAppError(t, err, "WAL_001")
}

// ==================== CreditByAdmin Tests ====================

func TestWalletService_CreditByAdmin_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	actor := ports.TokenClaims{AccountID: "admin-1", Admin: true}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return now }

	d.adminPolicy.EXPECT().Authorize(ctx, actor).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-2").Return(&domain.Account{
		ID:      "uid-2",
		Balance: dec("1"),
	}, nil)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "uid-2", decEq("11"), now).Return(nil)

	result, err := d.svc.CreditByAdmin(ctx, actor, "uid-2", dec("10"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.WalletBalance.Equal(dec("11")))
}

func TestWalletService_CreditByAdmin_NegativeAmountAllowed(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	actor := ports.TokenClaims{AccountID: "admin-1"}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return now }

	// The sign is unchecked: a negative admin credit debits without the
	// sufficiency check and may drive the balance below zero.
	d.adminPolicy.EXPECT().Authorize(ctx, actor).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "uid-2").Return(&domain.Account{
		ID:      "uid-2",
		Balance: dec("3"),
	}, nil)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "uid-2", decEq("-2"), now).Return(nil)

	result, err := d.svc.CreditByAdmin(ctx, actor, "uid-2", dec("-5"))
	require.NoError(t, err)
	assert.True(t, result.WalletBalance.Equal(dec("-2")))
}

func TestWalletService_CreditByAdmin_PolicyDenied(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := ports.TokenClaims{AccountID: "uid-regular"}

	d.adminPolicy.EXPECT().Authorize(ctx, actor).Return(apperror.ErrPermissionDenied())

	result, err := d.svc.CreditByAdmin(ctx, actor, "uid-2", dec("10"))
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_002")
}

func TestWalletService_CreditByAdmin_EmptyTarget(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := ports.TokenClaims{AccountID: "admin-1"}

	d.adminPolicy.EXPECT().Authorize(ctx, actor).Return(nil)

	result, err := d.svc.CreditByAdmin(ctx, actor, "", dec("10"))
	assert.Nil(t, result)
	assertAppError(t, err, "WAL_002")
}

func TestWalletService_CreditByAdmin_TargetNotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	actor := ports.TokenClaims{AccountID: "admin-1"}

	d.adminPolicy.EXPECT().Authorize(ctx, actor).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, "ghost").Return(nil, nil)

	result, err := d.svc.CreditByAdmin(ctx, actor, "ghost", dec("10"))
	assert.Nil(t, result)
	assertAppError(t, err, "WAL_001")
}

func TestWalletService_CreditByAdmin_Unauthenticated(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.CreditByAdmin(context.Background(), ports.TokenClaims{}, "uid-2", dec("10"))
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_001")
}

// ==================== GetBalance Tests ====================

func TestWalletService_GetBalance(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	lastClaim := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)

	d.accountRepo.EXPECT().GetByID(ctx, "uid-1").Return(&domain.Account{
		ID:               "uid-1",
		Balance:          dec("7.25"),
		LastDailyClaimAt: &lastClaim,
	}, nil)

	result, err := d.svc.GetBalance(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, result.WalletBalance.Equal(dec("7.25")))
	require.NotNil(t, result.LastDailyClaimAt)
	assert.True(t, result.LastDailyClaimAt.Equal(lastClaim))
}

func TestWalletService_GetBalance_NotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	d.accountRepo.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, nil)

	result, err := d.svc.GetBalance(context.Background(), "ghost")
	assert.Nil(t, result)
	assertAppError(t, err, "WAL_001")
}

// ==================== Helper ====================

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
