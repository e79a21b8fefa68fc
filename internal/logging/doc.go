// Package logging provides structured logging for the pixel controller.
//
// This package wraps a global zap logger with convenience functions used by
// the web server, the pixel driver and the CLI tools.
//
// # Log Levels
//
//   - Debug: pixel frames, DMX payloads, response sizes
//   - Info: requests, configuration changes, listener lifecycle
//   - Warn: coerced form values, out-of-range settings, dropped packets
//   - Error: persistence or driver failures
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, PIXELCFG_LOG_LEVEL is consulted. If that is empty
// too, a no-op logger is installed so CLI output stays clean.
package logging
