package handler

import (
	"time"

	"github.com/yusinchenn/accessible-shop-wallet/internal/adapter/http/dto"
	"github.com/yusinchenn/accessible-shop-wallet/internal/adapter/http/middleware"
	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports"
	"github.com/yusinchenn/accessible-shop-wallet/pkg/apperror"
	"github.com/yusinchenn/accessible-shop-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet endpoints for the authenticated caller.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// callerID extracts the authenticated account ID set by the JWT middleware.
func callerID(c *gin.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxAccountID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}

// ClaimDailyReward handles POST /api/v1/wallet/daily-reward.
func (h *WalletHandler) ClaimDailyReward(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	result, err := h.walletSvc.ClaimDailyReward(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ClaimRewardResponse{
		Success:       true,
		WalletBalance: result.WalletBalance.InexactFloat64(),
		Reward:        result.Reward.InexactFloat64(),
	})
}

// Debit handles POST /api/v1/wallet/debit.
func (h *WalletHandler) Debit(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.walletSvc.Debit(c.Request.Context(), id, decimal.NewFromFloat(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DebitResponse{
		Success:       result.Success,
		WalletBalance: result.WalletBalance.InexactFloat64(),
		Message:       result.Message,
	})
}

// GetBalance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	result, err := h.walletSvc.GetBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.BalanceResponse{
		WalletBalance: result.WalletBalance.InexactFloat64(),
	}
	if result.LastDailyClaimAt != nil {
		s := result.LastDailyClaimAt.UTC().Format(time.RFC3339)
		resp.LastDailyClaimAt = &s
	}

	response.OK(c, resp)
}
