package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"2.50", 2.50, true},
		{"2,50", 2.50, true},
		{" 1.5 ", 1.5, true},
		{"0", 0, true}, // corrections may reset a charge to zero
		{"0.001", 0.001, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("ParseAmount(%q) = %v (err=%v), want %v", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Fatalf("ParseAmount(%q) expected error", tc.in)
		}
	}
}

func TestFormatEuro(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "€0,00"},
		{2.5, "€2,50"},
		{10, "€10,00"},
		{1234.56, "€1234,56"},
		{-3.2, "-€3,20"},
		{0.005, "€0,01"}, // rounded to the cent for display
	}
	for _, tc := range cases {
		if got := FormatEuro(tc.in); got != tc.want {
			t.Errorf("FormatEuro(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
