package pixelconfig

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the configuration
func (c PixelConfig) Summary() string {
	return fmt.Sprintf("%s: universe %d @ %d, %d px %s/%s, gamma %s",
		c.Name, c.Universe, c.ChannelStart, c.PixelCount,
		labelOrCode(PixelTypes, c.PixelType), labelOrCode(ColorOrders, c.PixelColor),
		FormatGamma(c.Gamma))
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (c PixelConfig) FormatCompact() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device:   %s\n", c.Name)
	fmt.Fprintf(&b, "Universe: %d (start channel %d)\n", c.Universe, c.ChannelStart)
	fmt.Fprintf(&b, "Pixels:   %d x %s, %s\n", c.PixelCount,
		labelOrCode(PixelTypes, c.PixelType), labelOrCode(ColorOrders, c.PixelColor))
	fmt.Fprintf(&b, "Gamma:    %s\n", FormatGamma(c.Gamma))

	return b.String()
}

// FormatDetailed returns every setting along with the DMX footprint it
// occupies.
func (c PixelConfig) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Pixel Configuration ===\n")
	fmt.Fprintf(&b, "Device ID:     %s\n", c.Name)
	fmt.Fprintf(&b, "Universe:      %d\n", c.Universe)
	fmt.Fprintf(&b, "Start Channel: %d\n", c.ChannelStart)
	fmt.Fprintf(&b, "Pixel Count:   %d\n", c.PixelCount)
	fmt.Fprintf(&b, "Pixel Type:    %s (code %d)\n", labelOrCode(PixelTypes, c.PixelType), c.PixelType)
	fmt.Fprintf(&b, "Color Order:   %s (code %d)\n", labelOrCode(ColorOrders, c.PixelColor), c.PixelColor)
	fmt.Fprintf(&b, "Gamma:         %s\n", FormatGamma(c.Gamma))

	if c.PixelCount > 0 {
		first := c.ChannelStart
		if first < 1 {
			first = 1
		}
		last := first + c.PixelCount*3 - 1
		b.WriteString("\n=== DMX Footprint ===\n")
		fmt.Fprintf(&b, "Channels %d-%d (%d slots)\n", first, last, c.PixelCount*3)
		if last > 512 {
			b.WriteString("Warning: footprint extends past the end of the universe\n")
		}
	}

	if warnings := Validate(c); len(warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarnings(warnings))
	}

	return b.String()
}

// FormatDiff returns the fields that differ between old and new.
func FormatDiff(old, new PixelConfig) string {
	var b strings.Builder

	b.WriteString("=== Configuration Differences ===\n")

	changes := 0
	for _, f := range Fields.Fields() {
		before, after := f.Get(&old), f.Get(&new)
		if before == after {
			continue
		}
		fmt.Fprintf(&b, "  %-14s %s → %s\n", f.Name+":", before, after)
		changes++
	}

	if changes == 0 {
		b.WriteString("\n(no differences detected)\n")
	}

	return b.String()
}

func labelOrCode(options []Option, code int) string {
	if label := OptionLabel(options, code); label != "" {
		return label
	}
	return fmt.Sprintf("unknown(%d)", code)
}
