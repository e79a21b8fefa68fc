package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device represents a pixel controller found on the network
type Device struct {
	// Name is the mDNS instance name, which is the controller's devname
	Name string

	// Hostname is the mDNS hostname (e.g., "pixelcfg-lobby.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Universe is the DMX universe from the TXT record, 0 if missing
	Universe int

	// Metadata contains all mDNS TXT record data
	// Common fields: "path=/config/pixel", "device=pixelcfg", "universe=1"
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Pixel controller %q (universe %d) at %s", d.Name, d.Universe, d.HostPort())
}

// HostPort returns ip:port, bracketing IPv6 addresses.
func (d *Device) HostPort() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.HostPort()
}

// ConfigURL returns the URL of the configuration page.
func (d *Device) ConfigURL() string {
	path := d.GetMetadata(TxtPath)
	if path == "" {
		path = DefaultConfigPath
	}
	return d.BaseURL() + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
