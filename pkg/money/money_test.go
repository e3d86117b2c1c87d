package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "10000", want: "10000.0000"},
		{name: "two decimals", input: "333.33", want: "333.3300"},
		{name: "full scale", input: "-0.0001", want: "-0.0001"},
		{name: "surrounding space", input: " 12.5 ", want: "12.5000"},
		{name: "trailing zeros beyond scale", input: "1.000000", want: "1.0000"},
		{name: "too many digits", input: "1.00001", wantErr: true},
		{name: "garbage", input: "12a", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "out of range", input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestArithmeticIsExact(t *testing.T) {
	// 0.1 added ten times is exactly 1 at fixed scale.
	total := money.Zero()
	for i := 0; i < 10; i++ {
		total = money.Add(total, money.MustParse("0.1"))
	}
	assert.True(t, total.Equal(money.FromInt(1)))

	diff := money.Sub(money.MustParse("10000"), money.MustParse("15000"))
	assert.Equal(t, "-5000.0000", diff.String())
	assert.Equal(t, -1, money.Compare(diff, money.Zero()))
	assert.Equal(t, "5000.0000", money.Abs(diff).String())
	assert.True(t, money.IsZero(money.Sub(diff, diff)))
	assert.Equal(t, "0.0000", money.Sum().String())
}

func TestSplit(t *testing.T) {
	parts := money.MustParse("1000").Split(3, 2)
	require.Len(t, parts, 3)
	assert.Equal(t, "333.3300", parts[0].String())
	assert.Equal(t, "333.3300", parts[1].String())
	assert.Equal(t, "333.3400", parts[2].String())
	assert.True(t, money.Sum(parts...).Equal(money.MustParse("1000")))

	odd := money.MustParse("0.05").Split(4, 2)
	assert.True(t, money.Sum(odd...).Equal(money.MustParse("0.05")))
	assert.Equal(t, "0.0200", odd[3].String())

	assert.Nil(t, money.FromInt(10).Split(0, 2))
}

func TestMulPercent(t *testing.T) {
	profit := money.MustParse("10000")
	assert.Equal(t, "3333.3333", profit.MulPercent(decimal.RequireFromString("33.333333")).String())
	assert.Equal(t, "2500.0000", profit.MulPercent(decimal.NewFromInt(25)).String())
	assert.Equal(t, "-250.0000", money.MustParse("-1000").MulPercent(decimal.NewFromInt(25)).String())
}

func TestRound(t *testing.T) {
	assert.Equal(t, "0.0100", money.MustParse("0.005").Round(2).String())
	assert.Equal(t, "-0.0100", money.MustParse("-0.005").Round(2).String())
	assert.Equal(t, "1.2345", money.MustParse("1.2345").Round(6).String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "10,000.00", money.Format(money.MustParse("10000"), language.English))
	assert.Equal(t, "1,234.57", money.Format(money.MustParse("1234.5678"), language.English))
	assert.NotEmpty(t, money.Format(money.MustParse("10000"), language.Arabic))
	assert.Equal(t, "-0.25", money.Format(money.MustParse("-0.25"), language.English))
	assert.Equal(t, "0.00", money.Format(money.MustParse("-0.004"), language.English))
	assert.Equal(t, "1.234,50", money.Format(money.MustParse("1234.5"), language.German))
}

func TestFormatKeepsEveryDigit(t *testing.T) {
	// Beyond 2^53 a float64 round trip would change the trailing digits.
	assert.Equal(t, "900,000,000,000,000.99", money.Format(money.MustParse("900000000000000.99"), language.English))
	assert.Equal(t, "-900,000,000,000,000.99", money.Format(money.MustParse("-900000000000000.99"), language.English))
	assert.Equal(t, "922,337,203,685,477.58", money.Format(money.FromUnits(math.MaxInt64), language.English))
	assert.Equal(t, "-922,337,203,685,477.58", money.Format(money.FromUnits(math.MinInt64), language.English))
}

func TestJSON(t *testing.T) {
	type payload struct {
		Amount money.Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: money.MustParse("12.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"12.5000"}`, string(out))

	var fromNumber payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 99.99}`), &fromNumber))
	assert.Equal(t, "99.9900", fromNumber.Amount.String())

	var bad payload
	assert.Error(t, json.Unmarshal([]byte(`{"amount": "1.123456"}`), &bad))
}

func TestScanAndValue(t *testing.T) {
	var m money.Money
	require.NoError(t, m.Scan("150.2500"))
	assert.Equal(t, "150.2500", m.String())

	require.NoError(t, m.Scan([]byte("-3")))
	assert.Equal(t, "-3.0000", m.String())

	require.NoError(t, m.Scan(int64(7)))
	assert.Equal(t, "7.0000", m.String())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(true))

	v, err := money.MustParse("42.1").Value()
	require.NoError(t, err)
	assert.Equal(t, "42.1000", v)
}
