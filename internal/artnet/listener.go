package artnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/muurk/pixelcfg/internal/logging"
	"go.uber.org/zap"
)

const (
	// DefaultReadRetryDelay is the first pause after a failed socket read.
	// It doubles on each consecutive failure up to MaxReadRetryDelay.
	DefaultReadRetryDelay = 10 * time.Millisecond
	MaxReadRetryDelay     = time.Second

	// MaxReadFailures consecutive read errors stop Serve.
	MaxReadFailures = 8
)

type udpConn interface {
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
	LocalAddr() net.Addr
	Close() error
}

// Renderer consumes DMX data for one universe.
type Renderer interface {
	Universe() int
	Render(dmx []byte) error
}

// Listener receives ArtDmx packets over UDP and forwards the data for the
// renderer's universe.
type Listener struct {
	conn     udpConn
	renderer Renderer

	// RetryDelay is the first backoff after a read error.
	RetryDelay time.Duration
}

// Listen opens a UDP socket on addr (for example ":6454").
func Listen(addr string, renderer Renderer) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Art-Net address %q: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for Art-Net on %s: %w", addr, err)
	}

	logging.Info("Art-Net listener ready", zap.String("addr", conn.LocalAddr().String()))
	return newListener(conn, renderer), nil
}

func newListener(conn udpConn, renderer Renderer) *Listener {
	return &Listener{conn: conn, renderer: renderer, RetryDelay: DefaultReadRetryDelay}
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Serve reads packets until ctx is cancelled or Close is called. It returns
// an error after MaxReadFailures consecutive read errors.
func (l *Listener) Serve(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = l.conn.Close()
		case <-stop:
		}
	}()

	buffer := make([]byte, 1024)
	failures := 0
	delay := l.RetryDelay
	for {
		n, remoteAddr, err := l.conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				logging.Debug("Art-Net listener closed")
				return nil
			}

			failures++
			if failures >= MaxReadFailures {
				_ = l.conn.Close()
				return fmt.Errorf("art-net read failed %d times in a row: %w", failures, err)
			}
			logging.Warn("Art-Net read failed",
				zap.Error(err),
				zap.Int("failures", failures),
				zap.Duration("retry_in", delay))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			delay = min(delay*2, MaxReadRetryDelay)
			continue
		}

		failures = 0
		delay = l.RetryDelay
		l.handle(buffer[:n], remoteAddr)
	}
}

// Close stops Serve.
func (l *Listener) Close() error {
	return l.conn.Close()
}

func (l *Listener) handle(data []byte, from *net.UDPAddr) {
	packet, err := ParseDMX(data)
	if err != nil {
		if !errors.Is(err, ErrNotDmx) {
			logging.Debug("Dropping Art-Net packet",
				zap.String("from", from.String()),
				zap.Error(err),
			)
		}
		return
	}

	if packet.Universe != l.renderer.Universe() {
		return
	}

	if err := l.renderer.Render(packet.Data); err != nil {
		logging.Error("Failed to render DMX frame",
			zap.Int("universe", packet.Universe),
			zap.Error(err),
		)
	}
}
