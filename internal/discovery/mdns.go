package discovery

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type controllers advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for controllers
	DefaultPort = 80

	// DefaultConfigPath is the configuration page of a controller
	DefaultConfigPath = "/config/pixel"
)

// TXT record keys and the marker value identifying a controller.
const (
	TxtPath     = "path"
	TxtDevice   = "device"
	TxtUniverse = "universe"

	DeviceMarker = "pixelcfg"
)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForDevices discovers all pixel controllers on the local network
func (s *Scanner) ScanForDevices() ([]*Device, error) {
	return s.ScanForDevicesWithContext(context.Background())
}

// ScanForDevicesWithContext discovers devices with a custom context. The
// result is sorted by name.
func (s *Scanner) ScanForDevicesWithContext(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	collected := make(chan []*Device, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// The resolver closes entries when the browse context ends
	go func() {
		seen := make(map[string]*Device)
		for entry := range entries {
			if device := s.parseServiceEntry(entry); device != nil {
				seen[device.Name+"@"+device.HostPort()] = device
			}
		}
		devices := make([]*Device, 0, len(seen))
		for _, d := range seen {
			devices = append(devices, d)
		}
		sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })
		collected <- devices
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return <-collected, nil
}

// WaitForDevice waits for the controller advertising name
func (s *Scanner) WaitForDevice(name string) (*Device, error) {
	return s.WaitForDeviceWithContext(context.Background(), name)
}

// WaitForDeviceWithContext waits for a specific device with a custom context
func (s *Scanner) WaitForDeviceWithContext(ctx context.Context, name string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	deviceChan := make(chan *Device, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var once sync.Once
	go func() {
		for entry := range entries {
			device := s.parseServiceEntry(entry)
			if device != nil && device.Name == name {
				once.Do(func() {
					deviceChan <- device
					cancel()
				})
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case device := <-deviceChan:
		return device, nil
	case <-ctx.Done():
		select {
		case device := <-deviceChan:
			return device, nil
		default:
		}
		return nil, fmt.Errorf("device %q not found within timeout", name)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil unless the entry carries the pixelcfg TXT marker.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	metadata := parseTXT(entry.Text)
	if metadata[TxtDevice] != DeviceMarker {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	universe, _ := strconv.Atoi(metadata[TxtUniverse])

	return &Device{
		Name:         unescapeInstance(entry.Instance),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Universe:     universe,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}
	return metadata
}

// unescapeInstance undoes the DNS label escaping zeroconf applies to spaces
// and dots in instance names.
func unescapeInstance(instance string) string {
	return strings.NewReplacer(`\ `, " ", `\.`, ".", `\\`, `\`).Replace(instance)
}

// ScanForDevices is a convenience function to scan for devices with a custom timeout
func ScanForDevices(timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForDevices()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForDevices()
}
