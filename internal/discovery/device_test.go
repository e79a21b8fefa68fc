package discovery

import (
	"testing"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		Name:     "Lobby Pixels",
		IP:       "192.168.4.16",
		Port:     80,
		Universe: 3,
	}

	expected := `Pixel controller "Lobby Pixels" (universe 3) at 192.168.4.16:80`
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name:     "standard HTTP port",
			device:   &Device{IP: "192.168.4.16", Port: 80},
			expected: "http://192.168.4.16:80",
		},
		{
			name:     "custom port",
			device:   &Device{IP: "10.0.0.5", Port: 8080},
			expected: "http://10.0.0.5:8080",
		},
		{
			name:     "IPv6",
			device:   &Device{IP: "fe80::1", Port: 80},
			expected: "http://[fe80::1]:80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.BaseURL(); got != tt.expected {
				t.Errorf("Device.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDevice_ConfigURL(t *testing.T) {
	device := &Device{IP: "10.0.0.5", Port: 80}
	if got := device.ConfigURL(); got != "http://10.0.0.5:80/config/pixel" {
		t.Errorf("ConfigURL() without TXT path = %v", got)
	}

	device.Metadata = map[string]string{"path": "/setup"}
	if got := device.ConfigURL(); got != "http://10.0.0.5:80/setup" {
		t.Errorf("ConfigURL() with TXT path = %v", got)
	}
}

func TestDevice_GetMetadata_NilMap(t *testing.T) {
	device := &Device{}
	if got := device.GetMetadata("anything"); got != "" {
		t.Errorf("GetMetadata() on nil map = %q, want empty", got)
	}
}
