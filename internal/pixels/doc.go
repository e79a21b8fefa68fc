// Package pixels drives the pixel strip from DMX data.
//
// A Strip holds everything derived from the pixel configuration: the gamma
// lookup table, the wire order of the color channels and the frame buffer.
// Configure rebuilds that state and is what the configuration page calls
// after every submission. Render maps one DMX universe onto the strip,
// starting at the configured channel, and hands the finished frame to a Sink.
//
// The package ships LogSink, which only logs frames. Hardware output plugs in
// by implementing Sink.
package pixels
