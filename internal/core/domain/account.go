package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the per-user wallet record. The ID is the opaque subject
// identifier issued by the external identity provider; this service never
// generates one. Accounts are provisioned by onboarding outside the wallet
// core; every wallet operation treats a missing account as an error.
type Account struct {
	ID               string          `json:"id"`
	Balance          decimal.Decimal `json:"balance"`
	LastDailyClaimAt *time.Time      `json:"last_daily_claim_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// HasClaimedOn reports whether the account already took its daily reward on
// the calendar day containing now, evaluated in loc.
func (a *Account) HasClaimedOn(now time.Time, loc *time.Location) bool {
	if a.LastDailyClaimAt == nil {
		return false
	}
	return SameCalendarDay(*a.LastDailyClaimAt, now, loc)
}

// SameCalendarDay reports whether a and b fall on the same calendar day in
// loc. This is a day-boundary comparison, not a rolling 24h window: 23:59 and
// 00:01 the next minute are different days. The zone is an explicit policy
// input because the boundary moves with it.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
