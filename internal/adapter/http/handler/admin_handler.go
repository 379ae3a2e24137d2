package handler

import (
	"github.com/yusinchenn/accessible-shop-wallet/internal/adapter/http/dto"
	"github.com/yusinchenn/accessible-shop-wallet/internal/adapter/http/middleware"
	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports"
	"github.com/yusinchenn/accessible-shop-wallet/pkg/apperror"
	"github.com/yusinchenn/accessible-shop-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler handles administrative wallet endpoints.
type AdminHandler struct {
	walletSvc ports.WalletService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(walletSvc ports.WalletService) *AdminHandler {
	return &AdminHandler{walletSvc: walletSvc}
}

// Credit handles POST /api/v1/admin/credit.
func (h *AdminHandler) Credit(c *gin.Context) {
	claims, ok := c.Get(middleware.CtxClaims)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}
	actor, ok := claims.(ports.TokenClaims)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.AdminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.walletSvc.CreditByAdmin(c.Request.Context(), actor, req.UserID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CreditResponse{
		Success:       result.Success,
		WalletBalance: result.WalletBalance.InexactFloat64(),
	})
}
