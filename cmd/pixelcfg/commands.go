package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/pixelcfg/internal/artnet"
	"github.com/muurk/pixelcfg/internal/client"
	"github.com/muurk/pixelcfg/internal/discovery"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"github.com/muurk/pixelcfg/internal/tui"
)

// connectScanTimeout bounds the discovery scan used when --host is not given.
const connectScanTimeout = 5 * time.Second

// Controller flags
var (
	deviceHost   string
	devicePort   int
	timeout      time.Duration
	scanDuration time.Duration
	outputFormat string
	noVerify     bool
	retries      int
	rollback     bool
	artnetPort   int
)

// set flags
var (
	setName         string
	setUniverse     int
	setChannelStart int
	setPixelCount   int
	setPixelType    string
	setColorOrder   string
	setGamma        float64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceHost, "host", "", "Controller host or IP address (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", 80, "Controller HTTP port")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "HTTP request timeout")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(fillCmd)
}

// scanCmd discovers controllers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for pixel controllers on the network",
	Long: `Scan for pixel controllers using mDNS/DNS-SD discovery.

Controllers advertise an _http._tcp service with a device=pixelcfg TXT
record. Other HTTP services on the network are ignored.`,
	Example: `  # Scan for 10 seconds (default)
  pixelcfg scan

  # Longer scan for busy networks
  pixelcfg scan --duration 30s`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanDuration, "duration", discovery.DefaultScanTimeout, "How long to listen for advertisements")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for pixel controllers (%s)...\n\n", scanDuration)

	devices, err := discovery.ScanForDevices(scanDuration)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No controllers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check that pixelcfg-server is running without --mdns=false")
		fmt.Println("  - mDNS does not cross routers; use --host on other subnets")
		fmt.Println("  - Try a longer --duration")
		return nil
	}

	fmt.Printf("Found %d controller(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.Name)
		fmt.Printf("   Address:  %s\n", d.HostPort())
		fmt.Printf("   Universe: %d\n", d.Universe)
		fmt.Printf("   Page:     %s\n", d.ConfigURL())
		fmt.Println()
	}

	fmt.Println("Use 'pixelcfg show --host <ip>' to view a controller's configuration")
	return nil
}

// showCmd displays the current configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show controller configuration",
	Long: `Display the current configuration of a pixel controller, read from its
values page (/config/pixelvals).`,
	Example: `  # Show config with auto-discovery
  pixelcfg show

  # Compact output for a specific controller
  pixelcfg show --host 192.168.1.40 --format compact

  # JSON output for scripting
  pixelcfg show --host 192.168.1.40 --format json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	c, _, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := c.GetConfig(cmd.Context())
	if err != nil {
		return describe("failed to get configuration", err)
	}

	switch outputFormat {
	case "compact":
		fmt.Print(cfg.FormatCompact())
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "detailed":
		fmt.Print(cfg.FormatDetailed())
	default:
		return fmt.Errorf("unknown format %q (use detailed, compact or json)", outputFormat)
	}
	return nil
}

// setCmd changes individual fields
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change configuration fields",
	Long: `Change one or more configuration fields.

Only the flags given on the command line are sent; every other field keeps
its current value on the controller. The controller never rejects a value,
so the result is read back and compared, and a value the controller
coerced (for example a name longer than 31 bytes) is reported.`,
	Example: `  # Rename and move to universe 3
  pixelcfg set --devname "Lobby Pixels" --universe 3 --host 192.168.1.40

  # Color order by name or NeoPixel code
  pixelcfg set --color-order GRB
  pixelcfg set --color-order 82

  # Put the old values back if the controller does not take the change
  pixelcfg set --universe 7 --rollback`,
	Args: cobra.NoArgs,
	RunE: runSet,
}

func init() {
	addSetFlags(setCmd)
}

func addSetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&setName, "devname", "", "Device name (max 31 bytes)")
	f.IntVar(&setUniverse, "universe", 1, "DMX universe")
	f.IntVar(&setChannelStart, "channel-start", 1, "First DMX channel (1-based)")
	f.IntVar(&setPixelCount, "pixel-count", 0, "Number of pixels")
	f.StringVar(&setPixelType, "pixel-type", "", "Pixel type label or code")
	f.StringVar(&setColorOrder, "color-order", "", "Color order (RGB, GRB, BRG, RBG) or code")
	f.Float64Var(&setGamma, "gamma", 2.2, "Gamma exponent")
	f.BoolVar(&noVerify, "no-verify", false, "Skip read-back verification")
	f.IntVar(&retries, "retries", 3, "Number of verification retries")
	f.BoolVar(&rollback, "rollback", false, "Restore the previous configuration if verification fails")
}

func runSet(cmd *cobra.Command, args []string) error {
	update, err := updateFromFlags(cmd)
	if err != nil {
		return err
	}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to set; pass at least one field flag (see --help)")
	}

	ctx := cmd.Context()
	c, target, err := connect(ctx)
	if err != nil {
		return err
	}

	printer := tui.NewPrinter(cmd.OutOrStdout())

	if noVerify {
		if err := c.Update(ctx, update); err != nil {
			printer.PrintError("Update failed", err, client.GetTroubleshootingHint(err))
			return describe("update failed", err)
		}
		printer.PrintSuccess("Configuration sent (not verified)", []tui.Detail{{Key: "Controller", Value: target}})
		return nil
	}

	opts := client.DefaultVerificationOptions()
	opts.MaxRetries = retries

	if rollback {
		safe := client.NewRollbackManager(c).SafeUpdate(ctx, update, opts, "pixelcfg set")
		if !safe.Success {
			printer.PrintError("Configuration not verified", safe.Error, client.GetTroubleshootingHint(safe.Error))
			printMismatches(safe.UpdateResult)
			return fmt.Errorf("configuration verification failed (rolled back: %t)", safe.RollbackSucceeded)
		}
		return reportSet(printer, target, safe.UpdateResult)
	}

	result := c.UpdateAndVerify(ctx, update, opts)
	if !result.Success {
		printer.PrintError("Configuration not verified", result.Error, client.GetTroubleshootingHint(result.Error))
		printMismatches(result)
		return fmt.Errorf("configuration verification failed after %d attempts", result.Attempts)
	}
	return reportSet(printer, target, result)
}

func printMismatches(result *client.VerificationResult) {
	if result == nil {
		return
	}
	for _, m := range result.Mismatches {
		fmt.Printf("  - %s\n", m)
	}
}

func reportSet(printer *tui.Printer, target string, result *client.VerificationResult) error {
	printer.PrintSuccess("Configuration updated", []tui.Detail{
		{Key: "Controller", Value: target},
		{Key: "Attempts", Value: strconv.Itoa(result.Attempts)},
		{Key: "Now", Value: result.Actual.Summary()},
	})
	if result.Before != nil {
		fmt.Print(pixelconfig.FormatDiff(*result.Before, *result.Actual))
	}
	for _, w := range pixelconfig.Validate(*result.Actual) {
		fmt.Printf("Warning: %v\n", w)
	}
	return nil
}

// updateFromFlags builds an update from the flags the user actually set.
func updateFromFlags(cmd *cobra.Command) (*client.Update, error) {
	flags := cmd.Flags()
	update := client.NewUpdate()

	if flags.Changed("devname") {
		update.SetName(setName)
	}
	if flags.Changed("universe") {
		update.SetUniverse(setUniverse)
	}
	if flags.Changed("channel-start") {
		update.SetChannelStart(setChannelStart)
	}
	if flags.Changed("pixel-count") {
		update.SetPixelCount(setPixelCount)
	}
	if flags.Changed("pixel-type") {
		code, err := parseOption(pixelconfig.PixelTypes, setPixelType)
		if err != nil {
			return nil, fmt.Errorf("--pixel-type: %w", err)
		}
		update.SetPixelType(code)
	}
	if flags.Changed("color-order") {
		code, err := parseOption(pixelconfig.ColorOrders, setColorOrder)
		if err != nil {
			return nil, fmt.Errorf("--color-order: %w", err)
		}
		update.SetColorOrder(code)
	}
	if flags.Changed("gamma") {
		update.SetGamma(setGamma)
	}
	return update, nil
}

// parseOption accepts a catalog label (case-insensitive) or a numeric code.
// Numeric codes outside the catalog are passed through; the controller
// stores them and reports them as unsupported.
func parseOption(options []pixelconfig.Option, s string) (int, error) {
	s = strings.TrimSpace(s)
	for _, o := range options {
		if strings.EqualFold(o.Label, s) {
			return o.Code, nil
		}
	}
	if code, err := strconv.Atoi(s); err == nil {
		return code, nil
	}

	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	return 0, fmt.Errorf("unknown value %q (use one of %s or a numeric code)", s, strings.Join(labels, ", "))
}

// editCmd launches the interactive editor
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Launch the interactive editor",
	Long: `Launch a full-screen editor for one controller.

Move with the arrow keys, press enter to edit a field, left/right to cycle
pixel type and color order, and enter on Apply (or ctrl+s) to send the
changed fields.`,
	Example: `  # Edit with auto-discovery
  pixelcfg edit
  # Or simply (edit is default):
  pixelcfg

  # Edit a specific controller
  pixelcfg edit --host 192.168.1.40`,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, target, err := connect(ctx)
	if err != nil {
		return err
	}

	cfg, err := c.GetConfig(ctx)
	if err != nil {
		return describe(fmt.Sprintf("failed to connect to %s", target), err)
	}

	if err := tui.Run(c, target, cfg); err != nil {
		return fmt.Errorf("editor error: %w", err)
	}
	return nil
}

// fillCmd lights the whole strip in one color over Art-Net
var fillCmd = &cobra.Command{
	Use:   "fill <rrggbb>",
	Short: "Light every pixel in one color",
	Long: `Send one Art-Net DMX frame that sets every pixel to the given color.

The universe, start channel and pixel count are read from the controller,
so the frame lands exactly on the configured strip. Useful for checking the
color order: 'fill ff0000' must light red.`,
	Example: `  pixelcfg fill ff0000 --host 192.168.1.40
  pixelcfg fill 000000   # blackout`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	fillCmd.Flags().IntVar(&artnetPort, "artnet-port", artnet.DefaultPort, "Controller Art-Net UDP port")
}

func runFill(cmd *cobra.Command, args []string) error {
	rgb, err := parseColor(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, _, err := connect(ctx)
	if err != nil {
		return err
	}
	cfg, err := c.GetConfig(ctx)
	if err != nil {
		return describe("failed to get configuration", err)
	}

	host, err := hostOf(c.BaseURL)
	if err != nil {
		return err
	}
	addr := net.JoinHostPort(host, strconv.Itoa(artnetPort))

	conn, err := net.Dial("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to open Art-Net socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	packet := artnet.BuildDMX(cfg.Universe, 1, fillFrame(cfg, rgb))
	if _, err := conn.Write(packet); err != nil {
		return fmt.Errorf("failed to send Art-Net frame: %w", err)
	}

	fmt.Printf("Sent #%s to %d pixel(s) on universe %d (%s)\n", hex.EncodeToString(rgb[:]), cfg.PixelCount, cfg.Universe, addr)
	return nil
}

// fillFrame returns the DMX slots that set every configured pixel to rgb.
func fillFrame(cfg pixelconfig.PixelConfig, rgb [3]byte) []byte {
	start := cfg.ChannelStart - 1
	if start < 0 {
		start = 0
	}
	count := cfg.PixelCount
	if count < 0 {
		count = 0
	}

	end := start + count*3
	if end > artnet.MaxSlots {
		end = artnet.MaxSlots
	}
	if start > end {
		start = end
	}

	data := make([]byte, end)
	for i := start; i+3 <= end; i += 3 {
		copy(data[i:], rgb[:])
	}
	return data
}

func parseColor(s string) ([3]byte, error) {
	var rgb [3]byte
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || len(b) != 3 {
		return rgb, fmt.Errorf("invalid color %q (want rrggbb)", s)
	}
	copy(rgb[:], b)
	return rgb, nil
}

// connect returns a client for --host, or for the single controller found
// by a short mDNS scan.
func connect(ctx context.Context) (*client.Client, string, error) {
	host, port := deviceHost, devicePort

	if host == "" {
		fmt.Println("No controller specified, attempting auto-discovery...")
		scanner := discovery.NewScanner()
		scanner.Timeout = connectScanTimeout

		devices, err := scanner.ScanForDevicesWithContext(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("discovery failed: %w", err)
		}

		switch len(devices) {
		case 0:
			return nil, "", fmt.Errorf("no controllers found. Use --host to specify one manually")
		case 1:
		default:
			fmt.Printf("Found %d controllers:\n", len(devices))
			for i, d := range devices {
				fmt.Printf("%d. %s (%s)\n", i+1, d.Name, d.HostPort())
			}
			return nil, "", fmt.Errorf("multiple controllers found. Use --host to specify which one")
		}

		d := devices[0]
		fmt.Printf("Found controller: %s (%s)\n\n", d.Name, d.HostPort())
		host, port = d.IP, d.Port
	}

	c := client.NewClient(host, port)
	c.SetTimeout(timeout)
	return c, c.BaseURL, nil
}

func hostOf(baseURL string) (string, error) {
	hostport := strings.TrimPrefix(baseURL, "http://")
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", fmt.Errorf("invalid controller address %q: %w", baseURL, err)
	}
	return host, nil
}

// describe prefixes err with the short user-facing message for its kind and
// adds a next step when the address itself is the likely problem.
func describe(action string, err error) error {
	msg := fmt.Sprintf("%s: %s\n\n%s", action, client.GetShortErrorMessage(err), client.GetTroubleshootingHint(err))

	switch {
	case client.IsNetworkError(err) && deviceHost != "":
		msg += "\n\nRun 'pixelcfg scan' to list the controllers on this network."
	case client.IsParseError(err):
		msg += "\n\nCheck that --host points at a pixel controller and not another web server."
	}
	return errors.New(msg)
}
