package money

import "testing"

func TestPercentOf(t *testing.T) {
	cases := []struct {
		name    string
		amount  float64
		percent float64
		want    float64
	}{
		{"twenty percent of hundred", 100, 20, 20},
		{"zero percent", 100, 0, 0},
		{"zero amount", 0, 18, 0},
		{"negative amount clamps", -50, 10, 0},
		{"negative percent clamps", 100, -10, 0},
		{"fractional", 80, 18, 14.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PercentOf(tc.amount, tc.percent); got != tc.want {
				t.Fatalf("PercentOf(%v, %v) = %v, want %v", tc.amount, tc.percent, got, tc.want)
			}
		})
	}
}

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{1.004, 1.00},
		{49.995, 50.00},
		{113.3, 113.3},
		{0, 0},
		{-3.999, 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{49.995, "50.00"},
		{1.005, "1.01"},
		{113.3, "113.30"},
		{0, "0.00"},
		{-12.5, "0.00"},
		{7, "7.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-0.01); got != 0 {
		t.Fatalf("Clamp(-0.01) = %v, want 0", got)
	}
	if got := Clamp(12.34); got != 12.34 {
		t.Fatalf("Clamp(12.34) = %v, want 12.34", got)
	}
}
