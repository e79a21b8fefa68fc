package pixelconfig

// NeoPixel driver constants. Color order codes pack the wire offset of each
// channel into two bits: white in bits 6-7, red 4-5, green 2-3, blue 0-1.
const (
	NeoKHz800 = 0x0000

	NeoRGB = (0 << 6) | (0 << 4) | (1 << 2) | 2
	NeoGRB = (1 << 6) | (1 << 4) | (0 << 2) | 2
	NeoBRG = (1 << 6) | (1 << 4) | (2 << 2) | 0
	NeoRBG = (0 << 6) | (0 << 4) | (2 << 2) | 1
)

// Option is one entry of a select field's fixed catalog.
type Option struct {
	Label string `json:"label"`
	Code  int    `json:"code"`
}

// PixelTypes lists the supported pixel protocols.
var PixelTypes = []Option{
	{Label: "WS2811 800kHz", Code: NeoKHz800},
}

// ColorOrders lists the supported channel orderings.
var ColorOrders = []Option{
	{Label: "RGB", Code: NeoRGB},
	{Label: "GRB", Code: NeoGRB},
	{Label: "BRG", Code: NeoBRG},
	{Label: "RBG", Code: NeoRBG},
}

// OptionLabel returns the catalog label for code, or "" if code is not in
// the list.
func OptionLabel(options []Option, code int) string {
	for _, o := range options {
		if o.Code == code {
			return o.Label
		}
	}
	return ""
}
