package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

// DefaultMaxSnapshots bounds the rollback history.
const DefaultMaxSnapshots = 10

// Snapshot is a configuration read from the controller before a change.
type Snapshot struct {
	Config      pixelconfig.PixelConfig
	Timestamp   time.Time
	Description string
}

// RollbackManager keeps recent snapshots for a client and restores them
// when a change does not verify.
type RollbackManager struct {
	client       *Client
	maxSnapshots int

	mu        sync.RWMutex
	snapshots []*Snapshot
}

// NewRollbackManager creates a rollback manager for c.
func NewRollbackManager(c *Client) *RollbackManager {
	return &RollbackManager{
		client:       c,
		maxSnapshots: DefaultMaxSnapshots,
	}
}

// SaveSnapshot reads the controller's configuration and records it.
func (rm *RollbackManager) SaveSnapshot(ctx context.Context, description string) (*Snapshot, error) {
	cfg, err := rm.client.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch configuration for snapshot: %w", err)
	}
	return rm.record(cfg, description), nil
}

func (rm *RollbackManager) record(cfg pixelconfig.PixelConfig, description string) *Snapshot {
	snap := &Snapshot{Config: cfg, Timestamp: time.Now(), Description: description}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.snapshots = append(rm.snapshots, snap)
	if len(rm.snapshots) > rm.maxSnapshots {
		rm.snapshots = rm.snapshots[len(rm.snapshots)-rm.maxSnapshots:]
	}
	return snap
}

// Latest returns the most recent snapshot, or nil.
func (rm *RollbackManager) Latest() *Snapshot {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	if len(rm.snapshots) == 0 {
		return nil
	}
	return rm.snapshots[len(rm.snapshots)-1]
}

// Snapshots returns the history, oldest first.
func (rm *RollbackManager) Snapshots() []*Snapshot {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make([]*Snapshot, len(rm.snapshots))
	copy(out, rm.snapshots)
	return out
}

// RollbackTo sends every field of snap and verifies the result.
func (rm *RollbackManager) RollbackTo(ctx context.Context, snap *Snapshot, opts *VerificationOptions) *VerificationResult {
	if snap == nil {
		return &VerificationResult{Error: errors.New("no snapshot available for rollback")}
	}
	logging.Info("Rolling back configuration",
		zap.String("snapshot", snap.Description),
		zap.Time("taken", snap.Timestamp))
	return rm.client.UpdateAndVerify(ctx, FullUpdate(snap.Config), opts)
}

// SafeUpdateResult describes an update that may have been rolled back.
type SafeUpdateResult struct {
	Success     bool
	Description string

	UpdateResult *VerificationResult

	RollbackAttempted bool
	RollbackSucceeded bool
	RollbackResult    *VerificationResult

	Error error
}

// SafeUpdate applies update and restores the previous configuration when
// the controller does not end up holding the expected values.
func (rm *RollbackManager) SafeUpdate(ctx context.Context, update *Update, opts *VerificationOptions, description string) *SafeUpdateResult {
	result := &SafeUpdateResult{Description: description}

	res := rm.client.UpdateAndVerify(ctx, update, opts)
	result.UpdateResult = res
	if res.Before != nil {
		rm.record(*res.Before, description)
	}

	if res.Success {
		result.Success = true
		return result
	}

	// Nothing was sent if the first read failed.
	if res.Before == nil {
		result.Error = res.Error
		return result
	}

	result.RollbackAttempted = true
	rb := rm.RollbackTo(ctx, rm.Latest(), opts)
	result.RollbackResult = rb

	if rb.Success {
		result.RollbackSucceeded = true
		result.Error = fmt.Errorf("update failed (%w), previous configuration restored", res.Error)
	} else {
		result.Error = fmt.Errorf("update failed (%w) and rollback failed: %w", res.Error, rb.Error)
	}
	return result
}
