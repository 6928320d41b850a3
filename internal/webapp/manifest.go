// Package webapp serves the declarative artifacts the hosting browser
// consumes: the installable-application manifest and the offline-cache
// policy table. Both are data, not logic; the caching engine itself lives
// in the browser's service-worker runtime.
package webapp

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Manifest is the web-app manifest enabling install-to-home-screen.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []ManifestIcon `json:"icons"`
}

// ManifestIcon is one icon entry of the manifest.
type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// AppManifest returns the manifest for the coffee-shop application.
func AppManifest() Manifest {
	return Manifest{
		Name:            "Coffee Shop PWA",
		ShortName:       "CoffeePWA",
		Description:     "A PWA for your favorite coffee shop.",
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      "#8B4513",
		Icons: []ManifestIcon{
			{Src: "/icon-192x192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/icon-512x512.png", Sizes: "512x512", Type: "image/png"},
		},
	}
}

// ManifestHandler serves the manifest at its well-known path.
func ManifestHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(AppManifest()); err != nil {
		slog.Error("failed to encode manifest", "error", err)
	}
}
