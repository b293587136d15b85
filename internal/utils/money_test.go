package utils

import "testing"

func TestFormatPeso(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "PHP 0.00"},
		{55000, "PHP 550.00"},
		{123456, "PHP 1,234.56"},
		{100000000, "PHP 1,000,000.00"},
		{-6650, "-PHP 66.50"},
	}
	for _, tc := range cases {
		if got := FormatPeso(tc.cents); got != tc.want {
			t.Errorf("FormatPeso(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
