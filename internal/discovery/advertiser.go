package discovery

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

type registration interface {
	Shutdown()
}

type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (registration, error)

func zeroconfRegister(instance, service, domain string, port int, text []string, ifaces []net.Interface) (registration, error) {
	server, err := zeroconf.Register(instance, service, domain, port, text, ifaces)
	if err != nil {
		return nil, err
	}
	return server, nil
}

// Advertiser publishes the controller on mDNS so that scanners can find it.
type Advertiser struct {
	port     int
	register registerFunc

	mu       sync.Mutex
	server   registration
	instance string
	universe int
}

// NewAdvertiser returns an advertiser for an HTTP server on port.
func NewAdvertiser(port int) *Advertiser {
	return &Advertiser{port: port, register: zeroconfRegister}
}

// TXTRecords returns the TXT records advertised for universe.
func TXTRecords(universe int) []string {
	return []string{
		TxtPath + "=" + DefaultConfigPath,
		TxtDevice + "=" + DeviceMarker,
		TxtUniverse + "=" + strconv.Itoa(universe),
	}
}

// InstanceName returns the mDNS instance name for cfg.
func InstanceName(cfg pixelconfig.PixelConfig) string {
	if cfg.Name == "" {
		return DeviceMarker
	}
	return cfg.Name
}

// Start registers the service for cfg.
func (a *Advertiser) Start(cfg pixelconfig.PixelConfig) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registerLocked(cfg)
}

// Update re-registers the service when the name or universe changed. It
// matches the web server's change hook, so failures are only logged.
func (a *Advertiser) Update(cfg pixelconfig.PixelConfig) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil && a.instance == InstanceName(cfg) && a.universe == cfg.Universe {
		return
	}
	if err := a.registerLocked(cfg); err != nil {
		logging.Error("Failed to update mDNS advertisement", zap.Error(err))
	}
}

func (a *Advertiser) registerLocked(cfg pixelconfig.PixelConfig) error {
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	instance := InstanceName(cfg)
	server, err := a.register(instance, ServiceType, ServiceDomain, a.port, TXTRecords(cfg.Universe), nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}

	a.server = server
	a.instance = instance
	a.universe = cfg.Universe

	logging.Info("Advertising on mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", a.port),
		zap.Int("universe", cfg.Universe),
	)
	return nil
}

// Shutdown withdraws the advertisement.
func (a *Advertiser) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
