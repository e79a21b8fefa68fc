package web

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

// maxFormBody caps the urlencoded body read from a POST submission.
const maxFormBody = 16 << 10

// handleConfigPixel serves the configuration form. When the request carries
// arguments they are applied in order, then the configuration is saved and
// the strip reconfigured, once each. The response is always the form page.
func (s *Server) handleConfigPixel(w http.ResponseWriter, r *http.Request) {
	args := requestArgs(r)
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, len(args))

	if len(args) > 0 {
		s.applyArgs(context.WithoutCancel(r.Context()), r.RemoteAddr, args)
	}

	writeBody(w, http.StatusOK, ContentTypeHTML, ConfigPixelPage)
}

// handleConfigPixelVals serves the current values for the form script.
func (s *Server) handleConfigPixelVals(w http.ResponseWriter, r *http.Request) {
	body := pixelconfig.EncodeValues(s.store.Get())
	writeBody(w, http.StatusOK, pixelconfig.ContentTypeValues, []byte(body))
}

// applyArgs runs one form submission. Submissions are serialized so that the
// saved file and the strip always reflect the same record as the store.
func (s *Server) applyArgs(ctx context.Context, remoteAddr string, args []pixelconfig.Arg) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	var report pixelconfig.ApplyReport
	cfg := s.store.Update(func(c *pixelconfig.PixelConfig) {
		report = pixelconfig.Fields.Apply(c, args)
	})

	logging.Info("Pixel configuration submitted",
		zap.String("remote_addr", remoteAddr),
		zap.Strings("applied", report.Applied),
		zap.String("config", cfg.Summary()),
	)
	if len(report.Ignored) > 0 {
		logging.Debug("Ignored unknown form arguments", zap.Strings("names", report.Ignored))
	}
	if len(report.Coerced) > 0 {
		logging.Warn("Form values were not clean, stored fallback",
			zap.String("remote_addr", remoteAddr),
			zap.Strings("fields", report.Coerced),
		)
	}
	for _, warning := range pixelconfig.Validate(cfg) {
		logging.Warn("Pixel configuration out of range", zap.Error(warning))
	}

	if err := s.persister.Save(ctx, cfg); err != nil {
		logging.Error("Failed to save pixel configuration", zap.Error(err))
	}
	if err := s.reconfigurer.Reconfigure(ctx, cfg); err != nil {
		logging.Error("Failed to reconfigure pixel strip", zap.Error(err))
	}

	s.hub.BroadcastConfig(cfg)
	for _, fn := range s.onChange {
		fn(cfg)
	}
}

// requestArgs collects the query arguments followed by any urlencoded body
// arguments, in order.
func requestArgs(r *http.Request) []pixelconfig.Arg {
	args := pixelconfig.ParseArgs(r.URL.RawQuery)

	if r.Method != http.MethodPost || r.Body == nil {
		return args
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return args
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBody))
	if err != nil {
		logging.Warn("Failed to read form body", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return args
	}
	return append(args, pixelconfig.ParseArgs(string(body))...)
}
