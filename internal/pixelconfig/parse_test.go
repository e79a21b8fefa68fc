package pixelconfig

import (
	"strings"
	"testing"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"150", 150, true},
		{"0", 0, true},
		{"-3", -3, true},
		{"+7", 7, true},
		{"  42  ", 42, true},
		{"12abc", 12, false},
		{"2.2", 2, false},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"99999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseInt(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"2.2", 2.2, true},
		{"1", 1, true},
		{".5", 0.5, true},
		{"3.", 3, true},
		{"1e1", 10, true},
		{"-0.25", -0.25, true},
		{"2.2x", 2.2, false},
		{"x2.2", 0, false},
		{"", 0, false},
		{"nan", 0, false},
		{"1e999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFloat(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseFloat(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestURLDecode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lobby%20Pixels", "Lobby Pixels"},
		{"Lobby+Pixels", "Lobby Pixels"},
		{"100%25", "100%"},
		{"%E2%9C%93", "✓"},
		{"bad%zzescape", "bad%zzescape"},
		{"trailing%2", "trailing%2"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := URLDecode(tt.in); got != tt.want {
				t.Errorf("URLDecode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateName(t *testing.T) {
	long := "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	got, cut := TruncateName(long)
	if !cut || got != long[:NameMaxLen] {
		t.Errorf("TruncateName(long) = (%q, %v), want (%q, true)", got, cut, long[:NameMaxLen])
	}

	got, cut = TruncateName("short")
	if cut || got != "short" {
		t.Errorf("TruncateName(short) = (%q, %v)", got, cut)
	}

	// 30 ASCII bytes followed by a 3-byte rune straddling the bound.
	straddle := "123456789012345678901234567890✓"
	got, cut = TruncateName(straddle)
	if !cut || got != straddle[:30] {
		t.Errorf("TruncateName(straddle) = (%q, %v), want rune-aligned cut", got, cut)
	}

	// Latin-1 bytes are not UTF-8; nothing straddles, so keep NameMaxLen.
	latin1 := "Lobby" + strings.Repeat("\xb0", 30)
	got, cut = TruncateName(latin1)
	if !cut || got != latin1[:NameMaxLen] {
		t.Errorf("TruncateName(latin1) = (%q, %v), want first %d bytes", got, cut, NameMaxLen)
	}

	// A lead byte at the bound without its continuation is cut as is.
	broken := strings.Repeat("a", 30) + "\xe2" + "zz"
	got, _ = TruncateName(broken)
	if got != broken[:NameMaxLen] {
		t.Errorf("TruncateName(broken) = %q, want %q", got, broken[:NameMaxLen])
	}
}

func TestFormatGamma(t *testing.T) {
	tests := map[float64]string{
		2.2:  "2.2",
		1:    "1",
		0:    "0",
		2.25: "2.25",
	}
	for in, want := range tests {
		if got := FormatGamma(in); got != want {
			t.Errorf("FormatGamma(%v) = %q, want %q", in, got, want)
		}
	}
}
