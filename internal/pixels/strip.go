package pixels

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

// BytesPerPixel is the frame size of one RGB pixel.
const BytesPerPixel = 3

// Sink receives finished frames.
type Sink interface {
	Show(frame []byte) error
}

// LogSink logs every frame at debug level.
type LogSink struct{}

// Show implements Sink.
func (LogSink) Show(frame []byte) error {
	logging.LogRawBytes("Pixel frame", frame)
	return nil
}

// Strip is a configured pixel output.
type Strip struct {
	mu   sync.Mutex
	sink Sink

	cfg     pixelconfig.PixelConfig
	gamma   [256]byte
	offsets ColorOffsets
	frame   []byte
	frames  uint64
}

// NewStrip returns an unconfigured strip writing to sink. A nil sink means
// LogSink.
func NewStrip(sink Sink) *Strip {
	if sink == nil {
		sink = LogSink{}
	}
	s := &Strip{sink: sink}
	s.gamma = GammaTable(1)
	s.offsets, _ = DecodeColorOrder(pixelconfig.NeoRGB)
	return s
}

// Configure rebuilds the strip state from cfg.
func (s *Strip) Configure(cfg pixelconfig.PixelConfig) {
	offsets, ok := DecodeColorOrder(cfg.PixelColor)
	if !ok {
		logging.Warn("Unknown color order, using RGB",
			zap.Int("pixel_color", cfg.PixelColor),
		)
	}
	if pixelconfig.OptionLabel(pixelconfig.PixelTypes, cfg.PixelType) == "" {
		logging.Warn("Unknown pixel type, driving as WS2811 800kHz",
			zap.Int("pixel_type", cfg.PixelType),
		)
	}

	count := cfg.PixelCount
	switch {
	case count < 0:
		count = 0
	case count > pixelconfig.MaxPixelCount:
		logging.Warn("Pixel count above driver limit, clamping",
			zap.Int("pixel_count", cfg.PixelCount),
			zap.Int("limit", pixelconfig.MaxPixelCount),
		)
		count = pixelconfig.MaxPixelCount
	}

	table := GammaTable(cfg.Gamma)

	s.mu.Lock()
	s.cfg = cfg
	s.gamma = table
	s.offsets = offsets
	s.frame = make([]byte, count*BytesPerPixel)
	s.mu.Unlock()

	logging.Info("Pixel strip configured",
		zap.String("devname", cfg.Name),
		zap.Int("universe", cfg.Universe),
		zap.Int("channel_start", cfg.ChannelStart),
		zap.Int("pixels", count),
		zap.String("order", offsets.String()),
		zap.Float64("gamma", cfg.Gamma),
	)
}

// Reconfigure applies cfg. It satisfies the web server's reconfiguration
// hook.
func (s *Strip) Reconfigure(_ context.Context, cfg pixelconfig.PixelConfig) error {
	s.Configure(cfg)
	return nil
}

// Universe returns the DMX universe the strip listens to.
func (s *Strip) Universe() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Universe
}

// PixelCount returns the number of pixels in the frame buffer.
func (s *Strip) PixelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frame) / BytesPerPixel
}

// Frames returns how many frames have been rendered.
func (s *Strip) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Render maps dmx onto the strip and shows the frame. Slot numbering starts
// at channel_start (1-based; 0 or less counts as 1). Pixels past the end of
// dmx are black.
func (s *Strip) Render(dmx []byte) error {
	s.mu.Lock()
	start := s.cfg.ChannelStart - 1
	if start < 0 {
		start = 0
	}

	n := len(s.frame) / BytesPerPixel
	for i := 0; i < n; i++ {
		var r, g, b byte
		slot := start + i*BytesPerPixel
		if slot+2 < len(dmx) {
			r, g, b = dmx[slot], dmx[slot+1], dmx[slot+2]
		}
		px := s.frame[i*BytesPerPixel : (i+1)*BytesPerPixel]
		px[s.offsets.R] = s.gamma[r]
		px[s.offsets.G] = s.gamma[g]
		px[s.offsets.B] = s.gamma[b]
	}

	frame := make([]byte, len(s.frame))
	copy(frame, s.frame)
	s.frames++
	s.mu.Unlock()

	if err := s.sink.Show(frame); err != nil {
		return fmt.Errorf("failed to show frame: %w", err)
	}
	return nil
}

// GammaTable returns the 8-bit correction table for gamma. Non-positive or
// NaN gamma yields the identity table.
func GammaTable(gamma float64) [256]byte {
	var table [256]byte
	if !(gamma > 0) || math.IsInf(gamma, 0) {
		for i := range table {
			table[i] = byte(i)
		}
		return table
	}
	for i := range table {
		table[i] = byte(math.Round(255 * math.Pow(float64(i)/255, gamma)))
	}
	return table
}

// ColorOffsets gives the position of each channel within a pixel on the wire.
type ColorOffsets struct {
	R, G, B int
}

// String returns the channel order, for example "GRB".
func (o ColorOffsets) String() string {
	order := []byte("???")
	order[o.R] = 'R'
	order[o.G] = 'G'
	order[o.B] = 'B'
	return string(order)
}

// DecodeColorOrder unpacks a NeoPixel color order code. Codes outside the
// catalog decode as RGB with ok set to false.
func DecodeColorOrder(code int) (ColorOffsets, bool) {
	if pixelconfig.OptionLabel(pixelconfig.ColorOrders, code) == "" {
		return ColorOffsets{R: 0, G: 1, B: 2}, false
	}
	return ColorOffsets{
		R: (code >> 4) & 0x03,
		G: (code >> 2) & 0x03,
		B: code & 0x03,
	}, true
}
