package config

import (
	"fmt"

	"github.com/spf13/viper"

	"negotiation-service/src/pkg/money"
)

// Fees are fixed per-ride amounts in cents. Parsed from decimal strings so a
// typo in config fails startup instead of silently settling wrong amounts.
type Fees struct {
	PlatformFeeCents int64
	PaymentFeeCents  int64
}

func NewFees(v *viper.Viper) Fees {
	platform, err := money.ParseAmount(v.GetString("fees.platform"))
	if err != nil {
		panic(fmt.Sprintf("invalid fees.platform: %v", err))
	}
	payment, err := money.ParseAmount(v.GetString("fees.payment"))
	if err != nil {
		panic(fmt.Sprintf("invalid fees.payment: %v", err))
	}
	if platform < 0 || payment < 0 {
		panic("fees must not be negative")
	}

	return Fees{
		PlatformFeeCents: platform,
		PaymentFeeCents:  payment,
	}
}
