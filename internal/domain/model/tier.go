package model

import (
	"fmt"
	"strings"
)

type AccountTier int

const (
	// TierFree can only query rates based on USD.
	TierFree AccountTier = iota
	// TierSubscription may use any base currency.
	TierSubscription
)

func (t AccountTier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierSubscription:
		return "subscription"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

func ParseAccountTier(s string) (AccountTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free":
		return TierFree, nil
	case "subscription", "paid":
		return TierSubscription, nil
	default:
		return TierFree, fmt.Errorf("unknown account tier %q", s)
	}
}

// Decode lets envconfig populate an AccountTier from the environment.
func (t *AccountTier) Decode(value string) error {
	tier, err := ParseAccountTier(value)
	if err != nil {
		return err
	}
	*t = tier
	return nil
}
