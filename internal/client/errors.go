package client

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
)

// ErrorType is the broad category of a controller error.
type ErrorType int

const (
	ErrTypeNetwork ErrorType = iota
	ErrTypeHTTP
	// ErrTypeParse means the values document was malformed.
	ErrTypeParse
	// ErrTypeValidation means the controller did not store what was sent.
	ErrTypeValidation
	ErrTypeTimeout
	ErrTypeConnectionRefused
	ErrTypeDNS
)

var errorTypeNames = [...]string{
	ErrTypeNetwork:           "Network Error",
	ErrTypeHTTP:              "HTTP Error",
	ErrTypeParse:             "Parse Error",
	ErrTypeValidation:        "Validation Error",
	ErrTypeTimeout:           "Timeout",
	ErrTypeConnectionRefused: "Connection Refused",
	ErrTypeDNS:               "DNS Error",
}

func (et ErrorType) String() string {
	if et >= 0 && int(et) < len(errorTypeNames) {
		return errorTypeNames[et]
	}
	return fmt.Sprintf("ErrorType(%d)", et)
}

// NetworkErrorSubtype narrows ErrTypeNetwork and its relatives.
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// DeviceError is returned by every Client operation that fails.
type DeviceError struct {
	Type           ErrorType
	Message        string
	StatusCode     int // HTTP errors only
	Err            error
	NetworkSubtype NetworkErrorSubtype
	Host           string
	Retryable      bool
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

func (e *DeviceError) oneOf(types ...ErrorType) bool {
	for _, t := range types {
		if e.Type == t {
			return true
		}
	}
	return false
}

// socketCauses maps dial failures to their classification.
var socketCauses = []struct {
	errno   syscall.Errno
	typ     ErrorType
	subtype NetworkErrorSubtype
	message string
}{
	{syscall.ECONNREFUSED, ErrTypeConnectionRefused, NetworkErrorConnectionRefused, "Controller refused connection"},
	{syscall.EHOSTUNREACH, ErrTypeNetwork, NetworkErrorHostUnreachable, "Host unreachable"},
	{syscall.ENETUNREACH, ErrTypeNetwork, NetworkErrorNetworkUnreachable, "Network unreachable"},
}

// ClassifyNetworkError turns a transport error into a DeviceError for host.
// The checks see through *url.Error. DNS failures are the only network
// errors that are not retried.
func ClassifyNetworkError(err error, host string) *DeviceError {
	if err == nil {
		return nil
	}

	devErr := &DeviceError{
		Type:      ErrTypeNetwork,
		Message:   "Network error occurred",
		Err:       err,
		Host:      host,
		Retryable: true,
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded):
		devErr.Type, devErr.NetworkSubtype = ErrTypeTimeout, NetworkErrorTimeout
		devErr.Message = "Request timed out"

	case errors.As(err, &dnsErr):
		devErr.Type, devErr.NetworkSubtype = ErrTypeDNS, NetworkErrorDNS
		devErr.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
		devErr.Retryable = false

	case errors.As(err, &opErr):
		for _, c := range socketCauses {
			if errors.Is(opErr.Err, c.errno) {
				devErr.Type, devErr.NetworkSubtype, devErr.Message = c.typ, c.subtype, c.message
				break
			}
		}
	}

	return devErr
}

// NewNetworkError classifies err and replaces its message.
func NewNetworkError(message string, err error) *DeviceError {
	if devErr := ClassifyNetworkError(err, ""); devErr != nil {
		devErr.Message = message
		return devErr
	}
	return &DeviceError{Type: ErrTypeNetwork, Message: message, Retryable: true}
}

// NewHTTPError reports an unexpected status. Server errors are retried.
func NewHTTPError(statusCode int, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{Type: ErrTypeParse, Message: message, Err: err}
}

func NewValidationError(message string) *DeviceError {
	return &DeviceError{Type: ErrTypeValidation, Message: message}
}

func asDeviceError(err error) (*DeviceError, bool) {
	var devErr *DeviceError
	ok := errors.As(err, &devErr)
	return devErr, ok
}

// IsNetworkError reports whether err never got an HTTP answer.
func IsNetworkError(err error) bool {
	devErr, ok := asDeviceError(err)
	return ok && devErr.oneOf(ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS)
}

// IsParseError reports whether the host answered with something that is not
// a values document.
func IsParseError(err error) bool {
	devErr, ok := asDeviceError(err)
	return ok && devErr.oneOf(ErrTypeParse)
}

// IsRetryable reports whether err is a DeviceError marked retryable.
func IsRetryable(err error) bool {
	devErr, ok := asDeviceError(err)
	return ok && devErr.Retryable
}

func hint(summary string, steps ...string) string {
	lines := []string{summary}
	if len(steps) > 0 {
		lines = append(lines, "Troubleshooting:")
		for _, s := range steps {
			lines = append(lines, "  • "+s)
		}
	}
	return strings.Join(lines, "\n")
}

// GetTroubleshootingHint returns advice for the user, one step per line.
func GetTroubleshootingHint(err error) string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return hint("The controller did not respond in time.",
			"Check that the controller is powered on",
			"Try increasing the timeout with --timeout")
	case ErrTypeConnectionRefused:
		return hint("The controller refused the connection.",
			"Check that pixelcfg-server is running",
			"Verify the port number (default is 80)")
	case ErrTypeDNS:
		return hint("Could not resolve the controller hostname.",
			"Use the IP address instead, or run 'pixelcfg scan'",
			"Check your network DNS settings")
	case ErrTypeNetwork:
		if devErr.NetworkSubtype == NetworkErrorHostUnreachable {
			return hint("The controller is not reachable on the network.",
				"Verify the controller address is correct",
				"Try pinging it: ping "+devErr.Host)
		}
		return hint("Network communication failed. Check your network connection.")
	case ErrTypeHTTP:
		if devErr.StatusCode == 404 {
			return hint("The host answered but has no /config/pixel page. Is it a pixel controller?")
		}
		return hint(fmt.Sprintf("The controller returned HTTP error %d.", devErr.StatusCode))
	case ErrTypeParse:
		return hint("The controller's values page was not in the expected format.",
			"Open /config/pixelvals in a browser to see what the host returned")
	case ErrTypeValidation:
		return hint("The controller stored different values than were sent.",
			"Run 'pixelcfg show' to inspect them")
	}
	return "An error occurred. Please check the error message for details."
}

var shortMessages = map[ErrorType]string{
	ErrTypeTimeout:           "Controller not responding (timeout)",
	ErrTypeConnectionRefused: "Controller refused connection",
	ErrTypeDNS:               "Cannot resolve controller hostname",
	ErrTypeParse:             "Failed to parse controller response",
}

var shortNetworkMessages = map[NetworkErrorSubtype]string{
	NetworkErrorHostUnreachable:    "Controller unreachable - check network connection",
	NetworkErrorNetworkUnreachable: "Network unreachable",
}

// GetShortErrorMessage returns a one-line message for err.
func GetShortErrorMessage(err error) string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeNetwork:
		if msg, ok := shortNetworkMessages[devErr.NetworkSubtype]; ok {
			return msg
		}
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Controller error (HTTP %d)", devErr.StatusCode)
	}
	if msg, ok := shortMessages[devErr.Type]; ok {
		return msg
	}
	return devErr.Message
}
