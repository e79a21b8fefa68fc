package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muurk/pixelcfg/internal/pixelconfig"
)

// VerificationOptions configures how configuration verification behaves
type VerificationOptions struct {
	// MaxRetries is the maximum number of extra verification attempts
	// Default: 3
	MaxRetries int

	// InitialDelay is the delay before the first verification attempt
	// Default: 200ms
	InitialDelay time.Duration

	// RetryDelay is the delay between retry attempts
	// Default: 500ms
	RetryDelay time.Duration

	// UseExponentialBackoff doubles the delay after each attempt, up to MaxRetryDelay
	// Default: true
	UseExponentialBackoff bool

	// MaxRetryDelay is the maximum delay between retries when using exponential backoff
	// Default: 5s
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns sensible defaults for verification
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:            3,
		InitialDelay:          200 * time.Millisecond,
		RetryDelay:            500 * time.Millisecond,
		UseExponentialBackoff: true,
		MaxRetryDelay:         5 * time.Second,
	}
}

// VerificationResult contains the results of a configuration verification
type VerificationResult struct {
	// Success indicates whether verification succeeded
	Success bool

	// Attempts is the number of attempts made
	Attempts int

	// Before is the configuration read before the update, if any
	Before *pixelconfig.PixelConfig

	// Actual is the configuration last read from the controller
	Actual *pixelconfig.PixelConfig

	// Mismatches lists all detected mismatches between expected and actual config
	Mismatches []string

	// Error is any error that occurred during verification
	Error error
}

// Verify polls the controller until its configuration equals expected.
func (c *Client) Verify(ctx context.Context, expected pixelconfig.PixelConfig, opts *VerificationOptions) *VerificationResult {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}

	result := &VerificationResult{}

	if err := sleep(ctx, opts.InitialDelay); err != nil {
		result.Error = err
		return result
	}

	currentDelay := opts.RetryDelay

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result.Attempts++

		if attempt > 0 {
			if err := sleep(ctx, currentDelay); err != nil {
				result.Error = fmt.Errorf("verification cancelled: %w", err)
				return result
			}
			if opts.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > opts.MaxRetryDelay {
					currentDelay = opts.MaxRetryDelay
				}
			}
		}

		values, err := c.getValuesAttempt(ctx)
		if err != nil {
			result.Error = fmt.Errorf("attempt %d: failed to retrieve configuration: %w", attempt+1, err)
			continue
		}

		actual := values.Config
		result.Actual = &actual
		result.Mismatches = compareConfigs(expected, actual)

		if len(result.Mismatches) == 0 {
			result.Success = true
			result.Error = nil
			return result
		}

		if attempt < opts.MaxRetries {
			result.Error = fmt.Errorf("attempt %d: configuration mismatch (will retry)", attempt+1)
		} else {
			result.Error = NewValidationError(fmt.Sprintf("verification failed after %d attempts: %s",
				result.Attempts, formatMismatches(result.Mismatches)))
		}
	}

	return result
}

// UpdateAndVerify reads the current configuration, applies update, and
// checks that the controller stored what the form handler would store.
func (c *Client) UpdateAndVerify(ctx context.Context, update *Update, opts *VerificationOptions) *VerificationResult {
	before, err := c.GetConfig(ctx)
	if err != nil {
		return &VerificationResult{Error: fmt.Errorf("failed to read current configuration: %w", err)}
	}

	if err := c.Update(ctx, update); err != nil {
		return &VerificationResult{
			Before: &before,
			Error:  fmt.Errorf("update failed: %w", err),
		}
	}

	result := c.Verify(ctx, update.ApplyTo(before), opts)
	result.Before = &before
	return result
}

// compareConfigs lists every field that differs, in page order.
func compareConfigs(expected, actual pixelconfig.PixelConfig) []string {
	var mismatches []string
	for _, f := range pixelconfig.Fields.Fields() {
		want, got := f.Get(&expected), f.Get(&actual)
		if want != got {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %q, got %q", f.Name, want, got))
		}
	}
	return mismatches
}

// formatMismatches creates a human-readable summary of mismatches
func formatMismatches(mismatches []string) string {
	switch len(mismatches) {
	case 0:
		return "none"
	case 1:
		return mismatches[0]
	}
	return fmt.Sprintf("%d mismatches: %s", len(mismatches), strings.Join(mismatches, "; "))
}
