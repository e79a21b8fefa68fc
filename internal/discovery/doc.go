// Package discovery advertises and finds pixel controllers over mDNS.
//
// Controllers register an "_http._tcp" service whose instance name is the
// device name. The TXT records identify the service as a controller:
//
//	path=/config/pixel
//	device=pixelcfg
//	universe=1
//
// Scanners browse "_http._tcp" and keep only entries carrying device=pixelcfg,
// so other web servers on the network are ignored.
//
// # Usage Example
//
//	// Controller side
//	adv := discovery.NewAdvertiser(80)
//	if err := adv.Start(cfg); err != nil {
//	    log.Fatal(err)
//	}
//	defer adv.Shutdown()
//	srv.OnChange(adv.Update) // re-register when devname or universe change
//
//	// Client side
//	devices, err := discovery.ScanForDevices(5 * time.Second)
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
