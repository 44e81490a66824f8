package util

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"4.7k", 4700},
		{"4.7K", 4700},
		{"10meg", 10e6},
		{"2.2M", 2.2e6},
		{"1G", 1e9},
		{"100m", 0.1},
		{"47u", 47e-6},
		{"10n", 10e-9},
		{"3.3p", 3.3e-12},
		{"1.5e3", 1500},
		{"-5", -5},
		{" 1k ", 1000},
	}

	for _, c := range cases {
		got, err := ParseValue(c.in)
		if err != nil {
			t.Errorf("ParseValue(%q) failed: %v", c.in, err)
			continue
		}
		if math.Abs(got-c.want) > 1e-9*math.Abs(c.want) {
			t.Errorf("ParseValue(%q) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestParseValueRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "k1", "10x"} {
		if _, err := ParseValue(in); err == nil {
			t.Errorf("ParseValue(%q) should fail", in)
		}
	}
}

func TestFormatValueFactor(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.0, "1.000 "},
		{0.001, "1.000 m"},
		{47e-6, "47.000 u"},
		{10e-9, "10.000 n"},
		{3.3e-12, "3.300 p"},
	}
	for _, c := range cases {
		if got := FormatValueFactor(c.in, ""); got != c.want {
			t.Errorf("FormatValueFactor(%g) = %q, want %q", c.in, got, c.want)
		}
	}
}
