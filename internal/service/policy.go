package service

import "openexchangerates-service/internal/domain/model"

// IsEligible reports whether the account tier may query rates for base.
// The free tier is pinned to the provider's USD base.
func IsEligible(tier model.AccountTier, base model.Currency) bool {
	if tier == model.TierFree {
		return base == model.USD
	}
	return true
}
