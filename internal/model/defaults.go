package model

import "time"

// Shared defaults used by both the web server and the terminal browser.
const (
	DefaultFeedURL       = "http://localhost:8000"
	DefaultHTTPPort      = 8080
	DefaultFeedTimeout   = 15 * time.Second
	DefaultFeedCacheSize = 512
	DefaultFeedCacheTTL  = 5 * time.Minute
	DefaultRenderTimeout = 5 * time.Second
	DefaultSessionTTL    = 30 * time.Minute
	DefaultMaxSessions   = 256

	// DefaultTopicNameScheme is used when the selection names no scheme.
	DefaultTopicNameScheme = "Top3"
	// DefaultSimilarityMeasure is the measure requested by similarity views
	// when the route carries none.
	DefaultSimilarityMeasure = "cosine"

	SettingsKeyPrefix  = "settings-"
	FavoritesKeyPrefix = "favs-"

	SiteTitle = "Topical Guide"
)
