package moneypkg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Money
		wantErr error
	}{
		{name: "Zero", input: "0", want: 0},
		{name: "ZeroCanonical", input: "0.00", want: 0},
		{name: "WholeUnits", input: "50", want: 5000},
		{name: "OneDecimal", input: "10.5", want: 1050},
		{name: "TwoDecimals", input: "12.34", want: 1234},
		{name: "TrailingZeros", input: "1.50", want: 150},
		{name: "Empty", input: "", wantErr: ErrInvalidAmount},
		{name: "NonNumeric", input: "!@#$", wantErr: ErrInvalidAmount},
		{name: "Negative", input: "-1.00", wantErr: ErrInvalidAmount},
		{name: "OverPrecision", input: "1.555", wantErr: ErrInvalidAmount},
		{name: "FractionalCent", input: "0.001", wantErr: ErrInvalidAmount},
		{name: "OverflowsInt64Cents", input: "92233720368547758081.00", wantErr: ErrInvalidAmount},
		{name: "OverflowsInt64CentsTwice", input: "184467440737095516160.50", wantErr: ErrInvalidAmount},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Money
		wantErr error
	}{
		{name: "Positive", input: "50.00", want: 5000},
		{name: "Zero", input: "0", wantErr: ErrInvalidAmount},
		{name: "ZeroCanonical", input: "0.00", wantErr: ErrInvalidAmount},
		{name: "Negative", input: "-50.00", wantErr: ErrInvalidAmount},
		{name: "OverPrecision", input: "49.999", wantErr: ErrInvalidAmount},
		{name: "OverflowsInt64Cents", input: "92233720368547758081.00", wantErr: ErrInvalidAmount},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := FromCents(5000)
	b := FromCents(3000)

	require.Equal(t, FromCents(8000), a.Add(b))
	require.Equal(t, FromCents(2000), a.Sub(b))
	require.Equal(t, FromCents(-2000), b.Sub(a))
	require.True(t, b.Sub(a).IsNegative())
	require.False(t, a.Sub(b).IsNegative())
	require.True(t, b.LessThan(a))
	require.False(t, a.LessThan(b))
	require.Equal(t, int64(5000), a.Cents())
}

func TestString(t *testing.T) {
	testCases := []struct {
		input Money
		want  string
	}{
		{input: 0, want: "0.00"},
		{input: 5, want: "0.05"},
		{input: 50, want: "0.50"},
		{input: 1234, want: "12.34"},
		{input: 5000, want: "50.00"},
		{input: -2000, want: "-20.00"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, tc.input.String())
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "0.05", "12.34", "50.00", "99999.99"} {
		m, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, s, m.String())
	}
}
