// Package config persists the controller's pixel configuration.
//
// The configuration is stored as a versioned YAML document:
//
//	version: 1
//	pixel:
//	    name: Lobby Pixels
//	    universe: 1
//	    channel_start: 1
//	    pixel_count: 150
//	    pixel_type: 0
//	    pixel_color: 82
//	    gamma: 2.2
//	updated_at: 2026-10-16T09:12:44Z
//
// # File Location
//
// Unless a path is given explicitly, the file lives in the platform config
// directory:
//   - Linux: $XDG_CONFIG_HOME/pixelcfg/pixel.yaml or $HOME/.config/pixelcfg/pixel.yaml
//   - macOS: $HOME/.config/pixelcfg/pixel.yaml
//   - Windows: %LOCALAPPDATA%\pixelcfg\pixel.yaml
//
// # Usage Example
//
//	file, err := config.NewFile("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := file.Load() // defaults when the file does not exist yet
//	...
//	if err := file.Save(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// A File serializes its own loads and saves; writes are atomic (temporary
// file plus rename).
package config
