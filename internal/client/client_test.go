package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"github.com/muurk/pixelcfg/internal/web"
)

type nopHooks struct{}

func (nopHooks) Save(context.Context, pixelconfig.PixelConfig) error        { return nil }
func (nopHooks) Reconfigure(context.Context, pixelconfig.PixelConfig) error { return nil }

// newController starts a real controller HTTP surface around cfg.
func newController(t *testing.T, cfg pixelconfig.PixelConfig) (*httptest.Server, *pixelconfig.Store) {
	t.Helper()
	store := pixelconfig.NewStore(cfg)
	srv := web.New(&web.Config{}, store, nopHooks{}, nopHooks{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts, store
}

func fastClient(baseURL string) *Client {
	c := NewClientWithURL(baseURL)
	c.SetRetry(2, time.Millisecond)
	c.MaxRetryDelay = 5 * time.Millisecond
	return c
}

func fastVerify() *VerificationOptions {
	return &VerificationOptions{MaxRetries: 2, InitialDelay: 0, RetryDelay: time.Millisecond, MaxRetryDelay: 5 * time.Millisecond}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"192.168.4.16", 80, "http://192.168.4.16:80"},
		{"192.168.4.16:8080", 80, "http://192.168.4.16:8080"},
		{"lobby.local", 0, "http://lobby.local:80"},
		{"fe80::1", 8080, "http://[fe80::1]:8080"},
		{"[fe80::1]", 80, "http://[fe80::1]:80"},
	}

	for _, tt := range tests {
		if got := NewClient(tt.host, tt.port).BaseURL; got != tt.want {
			t.Errorf("NewClient(%q, %d).BaseURL = %s, want %s", tt.host, tt.port, got, tt.want)
		}
	}

	client := NewClient("192.168.4.16", 80)
	if client.HTTPClient == nil || client.HTTPClient.Timeout != DefaultTimeout {
		t.Error("HTTPClient should be set with the default timeout")
	}
	if client.MaxRetries != DefaultMaxRetries || !client.UseExponentialBackoff {
		t.Errorf("retry defaults not applied: %+v", client)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("192.168.4.16", 80)
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestPing(t *testing.T) {
	ts, store := newController(t, pixelconfig.Default())

	if err := fastClient(ts.URL).Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if store.Get() != pixelconfig.Default() {
		t.Error("Ping() must not change the configuration")
	}
}

func TestPing_NotAController(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	err := fastClient(ts.URL).Ping(context.Background())
	if err == nil {
		t.Fatal("Ping() should fail for a 404")
	}
	devErr, ok := asDeviceError(err)
	if !ok || devErr.Type != ErrTypeHTTP || devErr.StatusCode != http.StatusNotFound {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestPing_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := fastClient(url).Ping(context.Background())
	if err == nil || !IsNetworkError(err) {
		t.Errorf("Ping() error = %v, want network error", err)
	}
}

func TestGetConfig(t *testing.T) {
	cfg := pixelconfig.PixelConfig{Name: "Lobby Pixels", Universe: 3, ChannelStart: 1, PixelCount: 150, PixelColor: pixelconfig.NeoGRB, Gamma: 2.2}
	ts, _ := newController(t, cfg)

	got, err := fastClient(ts.URL).GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got != cfg {
		t.Errorf("GetConfig() = %+v, want %+v", got, cfg)
	}
}

func TestGetValues_ParseError(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html>not a values page</html>"))
	}))
	defer ts.Close()

	_, err := fastClient(ts.URL).GetValues(context.Background())
	if !IsParseError(err) {
		t.Errorf("GetValues() error = %v, want parse error", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("parse errors should not be retried, got %d requests", n)
	}
}

func TestGetValues_RetriesServerErrors(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(pixelconfig.EncodeValues(pixelconfig.Default())))
	}))
	defer ts.Close()

	got, err := fastClient(ts.URL).GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got != pixelconfig.Default() {
		t.Errorf("GetConfig() = %+v", got)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Errorf("requests = %d, want 3", n)
	}
}

func TestGetValues_GivesUpAfterMaxRetries(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := fastClient(ts.URL).GetValues(context.Background()); err == nil {
		t.Fatal("GetValues() should fail")
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Errorf("requests = %d, want 1 + 2 retries", n)
	}
}

func TestUpdate_SendsOnlyGivenFields(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
	}))
	defer ts.Close()

	update := NewUpdate().SetUniverse(4).SetName("Stage Left")
	if err := fastClient(ts.URL).Update(context.Background(), update); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if query != "devname=Stage+Left&universe=4" {
		t.Errorf("query = %q", query)
	}
}

func TestUpdate_EmptyIsNoop(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	if err := fastClient(ts.URL).Update(context.Background(), NewUpdate()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if hits != 0 {
		t.Errorf("empty update made %d requests", hits)
	}
}

func TestUpdate_AgainstController(t *testing.T) {
	ts, store := newController(t, pixelconfig.Default())

	err := fastClient(ts.URL).Update(context.Background(), NewUpdate().SetName("Lobby Pixels").SetGamma(1.8))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := pixelconfig.Default()
	want.Name = "Lobby Pixels"
	want.Gamma = 1.8
	if got := store.Get(); got != want {
		t.Errorf("store = %+v, want %+v", got, want)
	}
}

func TestUpdate_CancelledContext(t *testing.T) {
	ts, _ := newController(t, pixelconfig.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastClient(ts.URL).Update(ctx, NewUpdate().SetUniverse(2))
	if err == nil {
		t.Fatal("Update() should fail with a cancelled context")
	}
	if IsRetryable(err) {
		t.Error("cancelled requests must not be retryable")
	}
}

func TestUpdateToQuery(t *testing.T) {
	full := FullUpdate(pixelconfig.Default()).ToQuery()
	for _, f := range pixelconfig.Fields.Fields() {
		if !full.Has(f.Name) {
			t.Errorf("FullUpdate() missing %s", f.Name)
		}
	}
	if !NewUpdate().IsEmpty() || FullUpdate(pixelconfig.Default()).IsEmpty() {
		t.Error("IsEmpty() wrong")
	}
}

func TestUpdateApplyTo(t *testing.T) {
	base := pixelconfig.Default()
	got := NewUpdate().SetName(strings.Repeat("n", 40)).SetPixelCount(12).ApplyTo(base)

	if len(got.Name) != pixelconfig.NameMaxLen || got.PixelCount != 12 || got.Universe != base.Universe {
		t.Errorf("ApplyTo() = %+v", got)
	}
}

func TestDiffUpdate(t *testing.T) {
	current := pixelconfig.Default()
	next := current
	next.PixelColor = pixelconfig.NeoBRG
	next.Gamma = 1

	q := DiffUpdate(current, next).ToQuery()
	if q.Encode() != "gamma=1&pixel_color=88" {
		t.Errorf("DiffUpdate() query = %q", q.Encode())
	}
	if !DiffUpdate(current, current).IsEmpty() {
		t.Error("DiffUpdate() of equal configs should be empty")
	}
}
