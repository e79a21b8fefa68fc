package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

const (
	appName    = "pixelcfg"
	configFile = "pixel.yaml"
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/pixelcfg or $HOME/.config/pixelcfg
//   - macOS: $HOME/.config/pixelcfg
//   - Windows: %LOCALAPPDATA%\pixelcfg
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the default configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// File persists the pixel configuration as YAML.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File at path. An empty path selects GetConfigPath().
func NewFile(path string) (*File, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}
	return &File{path: path}, nil
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the configuration. A missing file is not an error; the
// controller defaults are returned instead.
func (f *File) Load() (pixelconfig.PixelConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		logging.Info("No configuration file, using defaults", zap.String("path", f.path))
		return pixelconfig.Default(), nil
	}
	if err != nil {
		return pixelconfig.PixelConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	doc, err := unmarshalDocument(data)
	if err != nil {
		return pixelconfig.PixelConfig{}, err
	}

	cfg := doc.Pixel
	cfg.Name, _ = pixelconfig.TruncateName(cfg.Name)
	return cfg, nil
}

// Save writes cfg to disk. The write goes to a temporary file that is then
// renamed over the old one, so a crash never leaves a half-written file.
func (f *File) Save(ctx context.Context, cfg pixelconfig.PixelConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshalDocument(NewDocument(cfg), f.path)
	if err != nil {
		return err
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	logging.Debug("Configuration saved", zap.String("path", f.path))
	return nil
}

func marshalDocument(doc *Document, path string) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Pixel controller configuration
# Written by pixelcfg-server whenever the configuration page is submitted.
#
# Location: ` + path + `

`)
	return append(header, data...), nil
}

func unmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", doc.Version, DocumentVersion)
	}

	return &doc, nil
}
