package web

import (
	"embed"
	"net/http"
)

//go:embed assets
var assets embed.FS

// Content types of the controller's responses.
const (
	ContentTypeHTML = "text/html"
	ContentTypeCSS  = "text/css"
	ContentTypeJS   = "application/javascript"
)

// ConfigPixelPage is the static configuration form. Its fields are filled
// in by the browser from /config/pixelvals.
var ConfigPixelPage = mustAsset("assets/config_pixel.html")

func mustAsset(name string) []byte {
	data, err := assets.ReadFile(name)
	if err != nil {
		panic("web: missing embedded asset " + name)
	}
	return data
}

func serveAsset(name, contentType string) http.HandlerFunc {
	body := mustAsset(name)
	return func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, contentType, body)
	}
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
