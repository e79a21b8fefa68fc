package config

import (
	"time"

	"github.com/muurk/pixelcfg/internal/pixelconfig"
)

// DocumentVersion is the on-disk format version written by Save.
const DocumentVersion = 1

// Document is the persisted configuration file.
type Document struct {
	Version   int                     `yaml:"version"`
	Pixel     pixelconfig.PixelConfig `yaml:"pixel"`
	UpdatedAt time.Time               `yaml:"updated_at,omitempty"`
}

// NewDocument wraps cfg in a current-version document.
func NewDocument(cfg pixelconfig.PixelConfig) *Document {
	return &Document{
		Version:   DocumentVersion,
		Pixel:     cfg,
		UpdatedAt: time.Now().UTC(),
	}
}
