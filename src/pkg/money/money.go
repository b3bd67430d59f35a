package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// All monetary amounts move through this package as integer cents.
// Conversions truncate toward zero: a displayed or stored total must never
// overstate money actually moved, so half-cents are dropped, not rounded up.

// epsilon absorbs float representation error (19.99*100 == 1998.999...)
// without letting a genuine half-cent round up.
const epsilon = 1e-6

// ToCents converts a decimal amount to integer cents, truncating toward zero.
func ToCents(amount float64) int64 {
	if amount >= 0 {
		return int64(math.Floor(amount*100 + epsilon))
	}
	return -int64(math.Floor(-amount*100 + epsilon))
}

// FromCents returns the float value of cents. Display code should prefer
// FormatCents; this exists for event payloads that carry numbers.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCents renders cents with exactly two decimal digits.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// TruncateTo formats value with the given number of decimals, truncating
// toward zero. Used for every user-facing financial aggregate (averages,
// totals) in place of round-half-up formatting.
func TruncateTo(value float64, decimals int) string {
	scale := math.Pow10(decimals)
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	scaled := int64(math.Floor(value*scale + epsilon))
	if decimals == 0 {
		return fmt.Sprintf("%s%d", sign, scaled)
	}
	base := int64(scale)
	return fmt.Sprintf("%s%d.%0*d", sign, scaled/base, decimals, scaled%base)
}

// ParseAmount parses a decimal string ("2.00", "19.995") into cents without
// going through float arithmetic. Fraction digits beyond cents are truncated.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := whole * 100
	if len(parts) == 2 && parts[1] != "" {
		frac := parts[1]
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		fracCents, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		cents += fracCents
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Settlement is the fee/earnings breakdown of one connected ride.
type Settlement struct {
	AmountCents      int64 // the agreed ride price
	FeeCents         int64 // fixed platform fee taken from the driver
	NetEarningsCents int64 // amount - fee - payment fee
	SurchargeCents   int64 // payment processor fee, charged to the passenger
	TotalPaidCents   int64 // amount + surcharge
}

// ComputeSettlement derives the breakdown from cents inputs. Pure; callers
// validate that priceCents is present and positive before settling.
func ComputeSettlement(priceCents, platformFeeCents, paymentFeeCents int64) Settlement {
	return Settlement{
		AmountCents:      priceCents,
		FeeCents:         platformFeeCents,
		NetEarningsCents: priceCents - platformFeeCents - paymentFeeCents,
		SurchargeCents:   paymentFeeCents,
		TotalPaidCents:   priceCents + paymentFeeCents,
	}
}
