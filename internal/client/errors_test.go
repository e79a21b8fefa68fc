package client

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	wrap := func(inner error) error {
		return &url.Error{Op: "Get", URL: "http://192.168.4.16", Err: &net.OpError{Op: "dial", Net: "tcp", Err: inner}}
	}

	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		wantSub   NetworkErrorSubtype
		retryable bool
	}{
		{"timeout", wrap(&timeoutError{}), ErrTypeTimeout, NetworkErrorTimeout, true},
		{"connection refused", wrap(syscall.ECONNREFUSED), ErrTypeConnectionRefused, NetworkErrorConnectionRefused, true},
		{"host unreachable", wrap(syscall.EHOSTUNREACH), ErrTypeNetwork, NetworkErrorHostUnreachable, true},
		{"network unreachable", wrap(syscall.ENETUNREACH), ErrTypeNetwork, NetworkErrorNetworkUnreachable, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "lobby.local", IsNotFound: true}, ErrTypeDNS, NetworkErrorDNS, false},
		{"generic", errors.New("connection reset"), ErrTypeNetwork, NetworkErrorGeneral, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devErr := ClassifyNetworkError(tt.err, "192.168.4.16")
			if devErr == nil {
				t.Fatal("Expected DeviceError, got nil")
			}
			if devErr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", devErr.Type, tt.wantType)
			}
			if devErr.NetworkSubtype != tt.wantSub {
				t.Errorf("NetworkSubtype = %v, want %v", devErr.NetworkSubtype, tt.wantSub)
			}
			if devErr.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", devErr.Retryable, tt.retryable)
			}
		})
	}

	if ClassifyNetworkError(nil, "") != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", NewHTTPError(503, "unavailable"), true},
		{"client error", NewHTTPError(404, "not found"), false},
		{"parse error", NewParseError("bad", nil), false},
		{"validation error", NewValidationError("mismatch"), false},
		{"wrapped retryable", fmt.Errorf("ctx: %w", NewHTTPError(500, "boom")), true},
		{"plain error", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&DeviceError{Type: ErrTypeTimeout}, "Controller not responding (timeout)"},
		{&DeviceError{Type: ErrTypeConnectionRefused}, "Controller refused connection"},
		{&DeviceError{Type: ErrTypeNetwork, NetworkSubtype: NetworkErrorHostUnreachable}, "Controller unreachable - check network connection"},
		{NewHTTPError(500, "x"), "Controller error (HTTP 500)"},
		{NewValidationError("universe: expected 1"), "universe: expected 1"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		if got := GetShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("GetShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		err      error
		contains string
	}{
		{&DeviceError{Type: ErrTypeConnectionRefused}, "pixelcfg-server"},
		{&DeviceError{Type: ErrTypeDNS}, "pixelcfg scan"},
		{&DeviceError{Type: ErrTypeNetwork, NetworkSubtype: NetworkErrorHostUnreachable, Host: "10.0.0.9"}, "ping 10.0.0.9"},
		{NewHTTPError(404, "x"), "/config/pixel"},
		{errors.New("plain"), "unexpected"},
	}

	for _, tt := range tests {
		if got := GetTroubleshootingHint(tt.err); !strings.Contains(got, tt.contains) {
			t.Errorf("GetTroubleshootingHint(%v) = %q, want it to contain %q", tt.err, got, tt.contains)
		}
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrTypeParse.String() != "Parse Error" {
		t.Errorf("ErrTypeParse.String() = %q", ErrTypeParse.String())
	}
	if got := ErrorType(99).String(); got != "ErrorType(99)" {
		t.Errorf("ErrorType(99).String() = %q", got)
	}
}

func TestDeviceError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewParseError("outer", inner)
	if !errors.Is(err, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
	if !strings.Contains(err.Error(), "caused by: inner") {
		t.Errorf("Error() = %q", err.Error())
	}
}
