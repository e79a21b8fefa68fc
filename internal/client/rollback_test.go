package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"github.com/muurk/pixelcfg/internal/web"
)

// refusingController silently drops universe=7 from form submissions.
func refusingController(t *testing.T, cfg pixelconfig.PixelConfig) (*httptest.Server, *pixelconfig.Store) {
	t.Helper()
	store := pixelconfig.NewStore(cfg)
	srv := web.New(&web.Config{}, store, nopHooks{}, nopHooks{})
	inner := srv.Handler()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get(pixelconfig.FieldUniverse) == "7" {
			q.Del(pixelconfig.FieldUniverse)
			r.URL.RawQuery = q.Encode()
		}
		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts, store
}

func TestSafeUpdate_Success(t *testing.T) {
	ts, store := newController(t, pixelconfig.Default())
	rm := NewRollbackManager(fastClient(ts.URL))

	result := rm.SafeUpdate(context.Background(), NewUpdate().SetPixelCount(30), fastVerify(), "pixel count")
	if !result.Success || result.RollbackAttempted {
		t.Fatalf("result = %+v", result)
	}
	if store.Get().PixelCount != 30 {
		t.Errorf("PixelCount = %d", store.Get().PixelCount)
	}

	snap := rm.Latest()
	if snap == nil || snap.Description != "pixel count" || snap.Config.PixelCount != pixelconfig.Default().PixelCount {
		t.Errorf("Latest() = %+v", snap)
	}
}

func TestSafeUpdate_RollsBack(t *testing.T) {
	ts, store := refusingController(t, pixelconfig.Default())
	rm := NewRollbackManager(fastClient(ts.URL))

	update := NewUpdate().SetUniverse(7).SetPixelCount(30)
	result := rm.SafeUpdate(context.Background(), update, fastVerify(), "move universe")

	if result.Success {
		t.Fatal("SafeUpdate() should fail")
	}
	if !result.RollbackAttempted || !result.RollbackSucceeded {
		t.Fatalf("rollback attempted=%v succeeded=%v err=%v",
			result.RollbackAttempted, result.RollbackSucceeded, result.Error)
	}
	if store.Get() != pixelconfig.Default() {
		t.Errorf("controller holds %+v, want defaults", store.Get())
	}

	var devErr *DeviceError
	if !errors.As(result.Error, &devErr) || devErr.Type != ErrTypeValidation {
		t.Errorf("Error = %v, want wrapped validation error", result.Error)
	}
}

func TestSafeUpdate_ReadFailsSkipsRollback(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()
	rm := NewRollbackManager(fastClient(ts.URL))

	result := rm.SafeUpdate(context.Background(), NewUpdate().SetGamma(1), fastVerify(), "gamma")
	if result.Success || result.RollbackAttempted || result.Error == nil {
		t.Errorf("result = %+v", result)
	}
	if rm.Latest() != nil {
		t.Error("no snapshot should be recorded")
	}
}

func TestRollbackManager_HistoryIsBounded(t *testing.T) {
	rm := NewRollbackManager(NewClientWithURL("http://127.0.0.1:1"))
	for i := 0; i < DefaultMaxSnapshots+3; i++ {
		cfg := pixelconfig.Default()
		cfg.Universe = i
		rm.record(cfg, "step")
	}

	snaps := rm.Snapshots()
	if len(snaps) != DefaultMaxSnapshots {
		t.Fatalf("len(Snapshots()) = %d", len(snaps))
	}
	if snaps[0].Config.Universe != 3 || rm.Latest().Config.Universe != DefaultMaxSnapshots+2 {
		t.Errorf("oldest = %d latest = %d", snaps[0].Config.Universe, rm.Latest().Config.Universe)
	}
}

func TestRollbackTo_Nil(t *testing.T) {
	rm := NewRollbackManager(NewClientWithURL("http://127.0.0.1:1"))
	if res := rm.RollbackTo(context.Background(), nil, nil); res.Success || res.Error == nil {
		t.Errorf("RollbackTo(nil) = %+v", res)
	}
}
