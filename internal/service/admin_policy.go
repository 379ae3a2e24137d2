package service

import (
	"context"

	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports"
	"github.com/yusinchenn/accessible-shop-wallet/pkg/apperror"
)

// PermissiveAdminPolicy allows any authenticated caller. This preserves the
// upstream deployment, where the admin check was left as a TODO and
// authentication alone gated the credit endpoint.
type PermissiveAdminPolicy struct{}

func NewPermissiveAdminPolicy() *PermissiveAdminPolicy {
	return &PermissiveAdminPolicy{}
}

func (p *PermissiveAdminPolicy) Authorize(_ context.Context, _ ports.TokenClaims) error {
	return nil
}

// ClaimAdminPolicy requires the identity provider's admin custom claim.
type ClaimAdminPolicy struct{}

func NewClaimAdminPolicy() *ClaimAdminPolicy {
	return &ClaimAdminPolicy{}
}

func (p *ClaimAdminPolicy) Authorize(_ context.Context, actor ports.TokenClaims) error {
	if !actor.Admin {
		return apperror.ErrPermissionDenied()
	}
	return nil
}

// AllowlistAdminPolicy admits only the configured account identifiers.
type AllowlistAdminPolicy struct {
	ids map[string]struct{}
}

func NewAllowlistAdminPolicy(ids []string) *AllowlistAdminPolicy {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return &AllowlistAdminPolicy{ids: m}
}

func (p *AllowlistAdminPolicy) Authorize(_ context.Context, actor ports.TokenClaims) error {
	if _, ok := p.ids[actor.AccountID]; !ok {
		return apperror.ErrPermissionDenied()
	}
	return nil
}

// AdminPolicyFromMode maps a configuration mode to a policy implementation.
// Unknown modes fall back to the claim policy, the safest of the three.
func AdminPolicyFromMode(mode string, allowlist []string) ports.AdminPolicy {
	switch mode {
	case "permissive":
		return NewPermissiveAdminPolicy()
	case "allowlist":
		return NewAllowlistAdminPolicy(allowlist)
	default:
		return NewClaimAdminPolicy()
	}
}
