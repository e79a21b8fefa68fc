package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/muurk/pixelcfg/internal/client"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
)

func TestParseOption(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"GRB", pixelconfig.NeoGRB, false},
		{"rbg", pixelconfig.NeoRBG, false},
		{" 88 ", pixelconfig.NeoBRG, false},
		{"3", 3, false},
		{"purple", 0, true},
	}

	for _, tt := range tests {
		got, err := parseOption(pixelconfig.ColorOrders, tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseOption(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestUpdateFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "set"}
	addSetFlags(cmd)

	if err := cmd.ParseFlags([]string{"--universe", "3", "--color-order", "brg", "--devname", "Lobby Pixels"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	update, err := updateFromFlags(cmd)
	if err != nil {
		t.Fatalf("updateFromFlags() error = %v", err)
	}
	if got := update.ToQuery().Encode(); got != "devname=Lobby+Pixels&pixel_color=88&universe=3" {
		t.Errorf("query = %q", got)
	}
}

func TestUpdateFromFlags_BadOption(t *testing.T) {
	cmd := &cobra.Command{Use: "set"}
	addSetFlags(cmd)
	if err := cmd.ParseFlags([]string{"--pixel-type", "ws2812b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := updateFromFlags(cmd); err == nil {
		t.Error("unknown pixel type label should fail")
	}
}

func TestFillFrame(t *testing.T) {
	cfg := pixelconfig.Default()
	cfg.ChannelStart = 4
	cfg.PixelCount = 2

	got := fillFrame(cfg, [3]byte{0xff, 0x80, 0x00})
	want := []byte{0, 0, 0, 0xff, 0x80, 0x00, 0xff, 0x80, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("fillFrame() = %v, want %v", got, want)
	}

	cfg.ChannelStart = 1
	cfg.PixelCount = 680
	if n := len(fillFrame(cfg, [3]byte{1, 2, 3})); n != 512 {
		t.Errorf("len(fillFrame()) = %d, want 512", n)
	}
}

func TestParseColor(t *testing.T) {
	if rgb, err := parseColor("#ff8000"); err != nil || rgb != [3]byte{0xff, 0x80, 0x00} {
		t.Errorf("parseColor() = %v, %v", rgb, err)
	}
	for _, bad := range []string{"fff", "gg0000", "ff000000"} {
		if _, err := parseColor(bad); err == nil {
			t.Errorf("parseColor(%q) should fail", bad)
		}
	}
}

func TestHostOf(t *testing.T) {
	tests := map[string]string{
		"http://192.168.1.40:80": "192.168.1.40",
		"http://[fe80::1]:8080":  "fe80::1",
	}
	for in, want := range tests {
		if got, err := hostOf(in); err != nil || got != want {
			t.Errorf("hostOf(%q) = %q, %v", in, got, err)
		}
	}
}

func TestDescribe(t *testing.T) {
	defer func(h string) { deviceHost = h }(deviceHost)
	deviceHost = "192.168.1.40"

	refused := client.NewNetworkError("request failed", errors.New("connection reset"))
	tests := []struct {
		name     string
		err      error
		contains string
		excludes string
	}{
		{"network error with --host", refused, "pixelcfg scan' to list", ""},
		{"not a values document", client.NewParseError("bad line", nil), "not another web server", "pixelcfg scan' to list"},
		{"http error", client.NewHTTPError(500, "boom"), "Controller error (HTTP 500)", "not another web server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := describe("failed", tt.err).Error()
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("describe() = %q, want it to contain %q", msg, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(msg, tt.excludes) {
				t.Errorf("describe() = %q, should not contain %q", msg, tt.excludes)
			}
		})
	}

	deviceHost = ""
	if msg := describe("failed", refused).Error(); strings.Contains(msg, "pixelcfg scan' to list") {
		t.Errorf("auto-discovered hosts should not suggest scanning: %q", msg)
	}
}
