package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	InitConfig()

	assert.Equal(t, "./img_cache", CacheDir)
	assert.Equal(t, 72*time.Hour, CacheTTL)
	assert.Equal(t, 5, SearchLimit)
	assert.Equal(t, 8*time.Second, SearchTimeout)
	assert.Equal(t, "app.png", AppIcon)
	assert.Equal(t, "book.png", BookIcon)
	assert.Equal(t, "openshelf.log", LogFile)
}

func TestInitConfigReadsOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	viper.Set("cache.dir", "/tmp/covers")
	viper.Set("search.timeout", "2s")

	InitConfig()

	assert.Equal(t, "/tmp/covers", CacheDir)
	assert.Equal(t, 2*time.Second, SearchTimeout)
}

func TestSetCacheDir(t *testing.T) {
	originalValue := CacheDir

	SetCacheDir("/tmp/other")
	assert.Equal(t, "/tmp/other", CacheDir)

	CacheDir = originalValue
}
