package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()
	marker := []string{"path=/config/pixel", "device=pixelcfg", "universe=3"}

	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantName     string
		wantIP       string
		wantPort     int
		wantUniverse int
	}{
		{
			name: "controller with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: `Lobby\ Pixels`},
				HostName:      "lobby.local.",
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          marker,
			},
			wantName:     "Lobby Pixels",
			wantIP:       "192.168.4.16",
			wantPort:     80,
			wantUniverse: 3,
		},
		{
			name: "controller with custom port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "bench"},
				HostName:      "bench.local",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.100")},
				Text:          marker,
			},
			wantName:     "bench",
			wantIP:       "192.168.1.100",
			wantPort:     8080,
			wantUniverse: 3,
		},
		{
			name: "no port specified (should default to 80)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "arch"},
				HostName:      "arch.local",
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
				Text:          []string{"device=pixelcfg"},
			},
			wantName: "arch",
			wantIP:   "172.16.0.1",
			wantPort: 80,
		},
		{
			name: "other HTTP service",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "printer"},
				HostName:      "printer.local",
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.1")},
				Text:          []string{"path=/"},
			},
			wantNil: true,
		},
		{
			name: "wrong device marker",
			entry: &zeroconf.ServiceEntry{
				HostName: "other.local",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
				Text:     []string{"device=espixelstick"},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "lobby.local",
				Port:     80,
				Text:     marker,
			},
			wantNil: true,
		},
		{
			name: "IPv6 only device",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				HostName:      "v6.local",
				Port:          80,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
				Text:          marker,
			},
			wantName:     "v6",
			wantIP:       "fe80::1",
			wantPort:     80,
			wantUniverse: 3,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				HostName:      "dual.local",
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
				Text:          marker,
			},
			wantName:     "dual",
			wantIP:       "192.168.1.50",
			wantPort:     80,
			wantUniverse: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil device")
			}

			if device.Name != tt.wantName {
				t.Errorf("device.Name = %v, want %v", device.Name, tt.wantName)
			}

			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}

			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}

			if device.Universe != tt.wantUniverse {
				t.Errorf("device.Universe = %v, want %v", device.Universe, tt.wantUniverse)
			}

			if device.Hostname != tt.entry.HostName {
				t.Errorf("device.Hostname = %v, want %v", device.Hostname, tt.entry.HostName)
			}

			// Check that DiscoveredAt is recent (within last second)
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"path=/config/pixel", "device=pixelcfg", "flag", "eq=a=b"})

	expected := map[string]string{
		"path":   "/config/pixel",
		"device": "pixelcfg",
		"flag":   "", // Key without value
		"eq":     "a=b",
	}

	if len(got) != len(expected) {
		t.Errorf("parseTXT() has %d entries, want %d", len(got), len(expected))
	}
	for key, want := range expected {
		if got[key] != want {
			t.Errorf("parseTXT()[%q] = %q, want %q", key, got[key], want)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestUnescapeInstance(t *testing.T) {
	tests := map[string]string{
		`Lobby\ Pixels`: "Lobby Pixels",
		`v1\.2`:         "v1.2",
		`back\\slash`:   `back\slash`,
		"plain":         "plain",
	}
	for in, want := range tests {
		if got := unescapeInstance(in); got != want {
			t.Errorf("unescapeInstance(%q) = %q, want %q", in, got, want)
		}
	}
}
