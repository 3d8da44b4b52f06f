package papertrade

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		value  Money
		want   string
		signed string
	}{
		{value: M(1500), want: "$1,500.00", signed: "+$1,500.00"},
		{value: M(0.5), want: "$0.50", signed: "+$0.50"},
		{value: M(1234567.891), want: "$1,234,567.89", signed: "+$1,234,567.89"},
		{value: Money{}, want: "$0.00", signed: "-"},
		{value: M(decimal.RequireFromString("92233720368547758.07")), want: "$92,233,720,368,547,758.07", signed: "+$92,233,720,368,547,758.07"},
		{value: M(decimal.RequireFromString("100000000000000000")), want: "$100000000000000000.00", signed: "+$100000000000000000.00"},
		{value: M(decimal.RequireFromString("-100000000000000000.125")), want: "-$100000000000000000.13", signed: "-$100000000000000000.13"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.value.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
			if got := tc.value.SignedString(); got != tc.signed {
				t.Errorf("SignedString() = %q, want %q", got, tc.signed)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("1000.25")
	if err != nil {
		t.Fatalf("ParseMoney() failed: %v", err)
	}
	if !m.Equal(M(1000.25)) {
		t.Errorf("ParseMoney(\"1000.25\") = %v", m)
	}
	if _, err := ParseMoney("ten dollars"); err == nil {
		t.Error("ParseMoney(\"ten dollars\") succeeded")
	}
}

func TestMoney_MulRatio(t *testing.T) {
	testCases := []struct {
		basis    Money
		num, den Quantity
		want     Money
	}{
		{basis: M(1000), num: 5, den: 10, want: M(500)},
		{basis: M(98), num: 2, den: 7, want: M(28)},
		{basis: M(100), num: 3, den: 3, want: M(100)},
		{basis: M(0.03), num: 1, den: 3, want: M(0.01)},
	}
	for _, tc := range testCases {
		if got := tc.basis.MulRatio(tc.num, tc.den); !got.Equal(tc.want) {
			t.Errorf("%v.MulRatio(%v, %v) = %v, want %v", tc.basis, tc.num, tc.den, got, tc.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		in      string
		want    Quantity
		wantErr bool
	}{
		{in: "10", want: 10},
		{in: "-3", want: -3},
		{in: "1.5", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseQuantity(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseQuantity(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
