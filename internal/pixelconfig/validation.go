package pixelconfig

import (
	"fmt"
	"strings"
)

// Limits used by Validate. Values outside them are stored anyway; the
// controller only reports them.
const (
	MinUniverse     = 1
	MaxUniverse     = 1<<15 - 1 // Art-Net 15-bit port address
	MinChannelStart = 1
	MaxChannelStart = 512
	MaxPixelCount   = 512 / 3 // RGB pixels in one DMX universe
	MinGamma        = 0.1
	MaxGamma        = 5.0
)

// Validate returns a warning for every setting the pixel driver cannot use
// as given. An empty slice means the configuration is sane.
func Validate(cfg PixelConfig) []error {
	var warnings []error

	if strings.TrimSpace(cfg.Name) == "" {
		warnings = append(warnings, fmt.Errorf("devname is empty"))
	}
	if cfg.Universe < MinUniverse || cfg.Universe > MaxUniverse {
		warnings = append(warnings, fmt.Errorf("universe must be %d-%d, got %d", MinUniverse, MaxUniverse, cfg.Universe))
	}
	if cfg.ChannelStart < MinChannelStart || cfg.ChannelStart > MaxChannelStart {
		warnings = append(warnings, fmt.Errorf("channel_start must be %d-%d, got %d", MinChannelStart, MaxChannelStart, cfg.ChannelStart))
	}
	if cfg.PixelCount < 0 || cfg.PixelCount > MaxPixelCount {
		warnings = append(warnings, fmt.Errorf("pixel_count must be 0-%d, got %d", MaxPixelCount, cfg.PixelCount))
	}
	if OptionLabel(PixelTypes, cfg.PixelType) == "" {
		warnings = append(warnings, fmt.Errorf("pixel_type %d is not supported", cfg.PixelType))
	}
	if OptionLabel(ColorOrders, cfg.PixelColor) == "" {
		warnings = append(warnings, fmt.Errorf("pixel_color %d is not supported", cfg.PixelColor))
	}
	if cfg.Gamma < MinGamma || cfg.Gamma > MaxGamma {
		warnings = append(warnings, fmt.Errorf("gamma must be %.1f-%.1f, got %s", MinGamma, MaxGamma, FormatGamma(cfg.Gamma)))
	}

	return warnings
}

// FormatWarnings joins warnings into one indented block for CLI output.
func FormatWarnings(warnings []error) string {
	if len(warnings) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d setting(s) out of range:\n", len(warnings))
	for i, w := range warnings {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, w)
	}
	return sb.String()
}
