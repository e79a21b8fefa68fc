package pixelconfig

import (
	"sync"
	"unicode/utf8"
)

// NameMaxLen is the largest device name, in bytes, that the controller
// stores. It matches the 32-byte firmware buffer minus its terminator.
const NameMaxLen = 31

// PixelConfig is the pixel output configuration of a controller.
type PixelConfig struct {
	Name         string  `yaml:"name" json:"devname"`
	Universe     int     `yaml:"universe" json:"universe"`
	ChannelStart int     `yaml:"channel_start" json:"channel_start"`
	PixelCount   int     `yaml:"pixel_count" json:"pixel_count"`
	PixelType    int     `yaml:"pixel_type" json:"pixel_type"`
	PixelColor   int     `yaml:"pixel_color" json:"pixel_color"`
	Gamma        float64 `yaml:"gamma" json:"gamma"`
}

// Default returns the configuration a fresh controller starts with.
func Default() PixelConfig {
	return PixelConfig{
		Name:         "pixelcfg",
		Universe:     1,
		ChannelStart: 1,
		PixelCount:   170,
		PixelType:    NeoKHz800,
		PixelColor:   NeoGRB,
		Gamma:        2.2,
	}
}

// TruncateName cuts name down to NameMaxLen bytes without splitting a
// UTF-8 sequence. The second return value reports whether anything was cut.
func TruncateName(name string) (string, bool) {
	if len(name) <= NameMaxLen {
		return name, false
	}
	cut := NameMaxLen
	// Step back only over a valid rune that crosses the bound. Stray
	// bytes in non-UTF-8 names are kept up to NameMaxLen.
	for i := cut - 1; i >= 0 && i > cut-utf8.UTFMax; i-- {
		if !utf8.RuneStart(name[i]) {
			continue
		}
		r, size := utf8.DecodeRuneInString(name[i:])
		if i+size > cut && !(r == utf8.RuneError && size == 1) {
			cut = i
		}
		break
	}
	return name[:cut], true
}

// Store owns the live configuration record and serializes access to it.
// Handlers receive a Store instead of touching a package-level variable.
type Store struct {
	mu  sync.RWMutex
	cfg PixelConfig
}

// NewStore creates a store seeded with initial.
func NewStore(initial PixelConfig) *Store {
	initial.Name, _ = TruncateName(initial.Name)
	return &Store{cfg: initial}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() PixelConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set replaces the whole configuration.
func (s *Store) Set(cfg PixelConfig) {
	cfg.Name, _ = TruncateName(cfg.Name)

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Update runs fn against the record under the write lock and returns the
// resulting configuration. All changes made by fn become visible at once.
func (s *Store) Update(fn func(cfg *PixelConfig)) PixelConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.cfg)
	s.cfg.Name, _ = TruncateName(s.cfg.Name)
	return s.cfg
}
