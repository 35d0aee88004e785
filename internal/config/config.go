package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// CacheDir is where downloaded cover images are stored
	CacheDir string
	// CacheTTL is how long cached covers are kept
	CacheTTL time.Duration
	// SearchLimit caps the number of results shown to the host
	SearchLimit int
	// SearchTimeout bounds a single search invocation
	SearchTimeout time.Duration
	// AppIcon is the bundled icon for informational entries
	AppIcon string
	// BookIcon is the bundled fallback icon for books without covers
	BookIcon string
	// LogFile is where plugin-mode logs go (stdout belongs to the protocol)
	LogFile string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("cache.dir", "./img_cache")
	viper.SetDefault("cache.ttl", "72h")
	viper.SetDefault("search.limit", 5)
	viper.SetDefault("search.timeout", "8s")
	viper.SetDefault("icons.app", "app.png")
	viper.SetDefault("icons.book", "book.png")
	viper.SetDefault("log.file", "openshelf.log")

	// Get values from viper
	CacheDir = viper.GetString("cache.dir")
	CacheTTL = viper.GetDuration("cache.ttl")
	SearchLimit = viper.GetInt("search.limit")
	SearchTimeout = viper.GetDuration("search.timeout")
	AppIcon = viper.GetString("icons.app")
	BookIcon = viper.GetString("icons.book")
	LogFile = viper.GetString("log.file")
}

// SetCacheDir sets the cover cache directory
func SetCacheDir(dir string) {
	CacheDir = dir
}
