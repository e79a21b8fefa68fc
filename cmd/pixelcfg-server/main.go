// Pixelcfg-server runs a pixel controller: the configuration web page,
// Art-Net DMX input for the strip, and mDNS advertisement.
//
// Usage:
//
//	pixelcfg-server serve [flags]
//
// See 'pixelcfg-server serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/pixelcfg/internal/artnet"
	"github.com/muurk/pixelcfg/internal/config"
	"github.com/muurk/pixelcfg/internal/discovery"
	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"github.com/muurk/pixelcfg/internal/pixels"
	"github.com/muurk/pixelcfg/internal/version"
	"github.com/muurk/pixelcfg/internal/web"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelcfg-server",
	Short: "Pixel controller",
	Long: `A pixel controller that drives an addressable LED strip from Art-Net.

The controller serves its configuration page on /config/pixel, stores every
submitted change in a YAML file, reconfigures the strip immediately, and
advertises itself on mDNS so 'pixelcfg scan' can find it.

For configuring a controller from the command line, use 'pixelcfg'.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host         string
	port         int
	configPath   string
	logLevel     string
	enableArtNet bool
	artnetAddr   string
	enableMDNS   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pixel controller",
	Long: `Start the pixel controller.

The configuration is loaded from --config (default: pixel.yaml in the user
config directory). A missing file starts the controller with defaults; the
file is created on the first form submission that carries arguments.`,
	Example: `  # Start on port 80 with Art-Net and mDNS
  pixelcfg-server serve

  # Unprivileged port, debug logging
  pixelcfg-server serve --port 8080 --log-level debug

  # Configuration page only, no DMX input and no advertisement
  pixelcfg-server serve --artnet=false --mdns=false --config ./lobby.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 80, "HTTP port")
	serveCmd.Flags().StringVar(&configPath, "config", "", "Configuration file (default: user config dir)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&enableArtNet, "artnet", true, "Receive Art-Net DMX for the strip")
	serveCmd.Flags().StringVar(&artnetAddr, "artnet-addr", fmt.Sprintf(":%d", artnet.DefaultPort), "Art-Net UDP listen address")
	serveCmd.Flags().BoolVar(&enableMDNS, "mdns", true, "Advertise the controller on mDNS")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	file, err := config.NewFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	cfg, err := file.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, w := range pixelconfig.Validate(cfg) {
		logging.Warn("Configuration warning", zap.Error(w))
	}

	store := pixelconfig.NewStore(cfg)
	strip := pixels.NewStrip(nil)
	strip.Configure(cfg)

	srv := web.New(&web.Config{Host: host, Port: port}, store, file, strip)
	if err := srv.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if enableArtNet {
		listener, err := artnet.Listen(artnetAddr, strip)
		if err != nil {
			return fmt.Errorf("failed to start Art-Net input: %w", err)
		}
		go func() {
			if err := listener.Serve(ctx); err != nil {
				logging.Error("Art-Net input stopped", zap.Error(err))
			}
		}()
	}

	if enableMDNS {
		adv := discovery.NewAdvertiser(listenPort(srv.Addr()))
		if err := adv.Start(cfg); err != nil {
			// The page still works by IP address.
			logging.Warn("mDNS advertisement unavailable", zap.Error(err))
		}
		defer adv.Shutdown()
		srv.OnChange(adv.Update)
	}

	return srv.Start()
}

func listenPort(addr net.Addr) int {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.Port
	}
	return port
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pixelcfg-server %s\n", version.Full())
	},
}
