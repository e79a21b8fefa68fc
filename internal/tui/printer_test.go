package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPrinterSuccessKeepsDetailOrder(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSuccess("Configuration applied", []Detail{
		{Key: "Universe", Value: "3"},
		{Key: "Gamma", Value: "2.2"},
	})

	out := buf.String()
	if !strings.Contains(out, "Configuration applied") {
		t.Errorf("output missing title:\n%s", out)
	}
	if u, g := strings.Index(out, "Universe"), strings.Index(out, "Gamma"); u < 0 || g < 0 || u > g {
		t.Errorf("details out of order:\n%s", out)
	}
}

func TestPrinterError(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintError("Update failed", errors.New("refused"), "Check the server")

	out := buf.String()
	for _, want := range []string{FailureMarker, "Update failed", "Error: refused", "Check the server"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClampWidth(t *testing.T) {
	tests := []struct{ in, want int }{
		{10, MinTerminalWidth},
		{80, 80},
		{500, MaxContentWidth},
	}
	for _, tt := range tests {
		if got := clampWidth(tt.in); got != tt.want {
			t.Errorf("clampWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
