package webapp

import (
	"net/http"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/api/shared"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/config"
)

// Caching strategies understood by the service-worker runtime.
const (
	StrategyNetworkFirst = "NetworkFirst"
	StrategyCacheFirst   = "CacheFirst"
)

// CacheRule maps a URL pattern to a caching strategy with a bounded
// expiration. The rules are policy only; the engine enforcing them is the
// browser's service worker.
type CacheRule struct {
	URLPattern string `json:"url_pattern"`
	Handler    string `json:"handler"`
	CacheName  string `json:"cache_name"`
	MaxEntries int    `json:"max_entries"`
	MaxAgeSecs int    `json:"max_age_seconds"`
}

// OfflineCachePolicy is the full policy table plus the registration switch.
type OfflineCachePolicy struct {
	// Register is false in development so a stale service worker never
	// masks local changes.
	Register       bool        `json:"register"`
	Scope          string      `json:"scope"`
	SkipWaiting    bool        `json:"skip_waiting"`
	RuntimeCaching []CacheRule `json:"runtime_caching"`
}

// Policy builds the offline-cache policy for the given configuration:
// network-first for backend API reads with a 50-entry/24-hour bound, and
// cache-first for images with a 100-entry/30-day bound.
func Policy(cfg config.AppConfig) OfflineCachePolicy {
	return OfflineCachePolicy{
		Register:    !cfg.IsDevelopment(),
		Scope:       "/",
		SkipWaiting: true,
		RuntimeCaching: []CacheRule{
			{
				URLPattern: `^https://.*\.supabase\.co/rest/v1/.*`,
				Handler:    StrategyNetworkFirst,
				CacheName:  "supabase-api-cache",
				MaxEntries: 50,
				MaxAgeSecs: 60 * 60 * 24, // 24 hours
			},
			{
				URLPattern: `\.(?:png|jpg|jpeg|svg|gif|webp)$`,
				Handler:    StrategyCacheFirst,
				CacheName:  "image-cache",
				MaxEntries: 100,
				MaxAgeSecs: 60 * 60 * 24 * 30, // 30 days
			},
		},
	}
}

// PolicyHandler serves the offline-cache policy table.
func PolicyHandler(cfg config.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, Policy(cfg))
	}
}
