// Package pixelconfig holds the pixel output configuration of a controller
// and the two text formats the configuration page speaks.
//
// # Configuration Record
//
// PixelConfig carries the device name, the DMX universe and start channel,
// the pixel count, the pixel protocol and color order codes, and the gamma
// exponent. A Store owns the live record; handlers get and update it through
// the store instead of sharing a package-level variable.
//
// # Form Arguments
//
// The configuration page submits its fields as query arguments:
//
//	devname=Lobby%20Pixels&universe=1&channel_start=0&pixel_count=150&pixel_type=0&pixel_color=1&gamma=2.2
//
// ParseArgs keeps the arguments in order, and Fields.Apply assigns them
// through a static registry mapping each name to a typed setter. Numbers use
// the legacy lenient conversion (leading digits, zero when none); Apply
// reports every value that needed that fallback so the caller can log it.
//
// # Values Document
//
// EncodeValues produces the line-oriented document the page script uses to
// fill in the form:
//
//	devname|input|Lobby Pixels
//	universe|input|1
//	channel_start|input|0
//	pixel_count|input|150
//	pixel_type|opt|WS2811 800kHz|0
//	pixel_type|input|0
//	pixel_color|opt|RGB|6
//	pixel_color|opt|GRB|82
//	pixel_color|opt|BRG|88
//	pixel_color|opt|RBG|9
//	pixel_color|input|1
//	gamma|input|2.2
//
// Line order and the field/kind tokens are fixed; existing page scripts
// depend on them. ParseValues is the strict inverse used by the CLI client.
package pixelconfig
