package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCentsTruncates(t *testing.T) {
	assert.Equal(t, int64(1999), ToCents(19.995), "half cents are dropped")
	assert.Equal(t, int64(1999), ToCents(19.99), "float representation error must not lose a cent")
	assert.Equal(t, int64(2250), ToCents(22.50))
	assert.Equal(t, int64(2500), ToCents(25.00))
	assert.Equal(t, int64(0), ToCents(0))
	assert.Equal(t, int64(-1999), ToCents(-19.995))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "19.99", FormatCents(1999))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "2.00", FormatCents(200))
	assert.Equal(t, "-17.99", FormatCents(-1799))
}

func TestTruncateTo(t *testing.T) {
	assert.Equal(t, "3.33", TruncateTo(10.0/3.0, 2))
	assert.Equal(t, "2.99", TruncateTo(2.9999, 2))
	assert.Equal(t, "4.6", TruncateTo(4.69, 1))
	assert.Equal(t, "12", TruncateTo(12.9, 0))
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"2.00":   200,
		"2":      200,
		"19.995": 1999,
		"0.5":    50,
		"-1.25":  -125,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAmount("abc")
	assert.Error(t, err)
	_, err = ParseAmount("")
	assert.Error(t, err)
}

func TestComputeSettlement(t *testing.T) {
	// ride priced 19.995 with platform fee 2.00: price truncates to 19.99
	// before fee subtraction, never naive float math.
	s := ComputeSettlement(ToCents(19.995), 200, 0)
	assert.Equal(t, "19.99", FormatCents(s.AmountCents))
	assert.Equal(t, "17.99", FormatCents(s.NetEarningsCents))
	assert.Equal(t, "19.99", FormatCents(s.TotalPaidCents))

	s = ComputeSettlement(ToCents(22.50), 200, 50)
	assert.Equal(t, int64(2000), s.NetEarningsCents)
	assert.Equal(t, int64(2300), s.TotalPaidCents)
	assert.Equal(t, int64(50), s.SurchargeCents)
}
