package dto

// DebitRequest is the request body for spending wallet balance. Amount is
// validated as strictly positive at the edge; the service re-checks it.
type DebitRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// AdminCreditRequest is the request body for an admin balance adjustment.
// Amount carries no sign constraint; a negative value deducts.
type AdminCreditRequest struct {
	UserID string  `json:"userId" binding:"required,max=128,safe_id"`
	Amount float64 `json:"amount" binding:"required"`
}

// ClaimRewardResponse is the response body for a successful daily claim.
type ClaimRewardResponse struct {
	Success       bool    `json:"success"`
	WalletBalance float64 `json:"walletBalance"`
	Reward        float64 `json:"reward"`
}

// DebitResponse is the response body for a debit attempt. Success is false
// when the balance was insufficient; the HTTP status is still 200.
type DebitResponse struct {
	Success       bool    `json:"success"`
	WalletBalance float64 `json:"walletBalance"`
	Message       string  `json:"message"`
}

// CreditResponse is the response body for an admin credit.
type CreditResponse struct {
	Success       bool    `json:"success"`
	WalletBalance float64 `json:"walletBalance"`
}

// BalanceResponse is the response body for a balance query.
type BalanceResponse struct {
	WalletBalance    float64 `json:"walletBalance"`
	LastDailyClaimAt *string `json:"lastDailyClaimAt,omitempty"` // RFC 3339
}
