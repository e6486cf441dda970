package config

import (
	"os"
	"path/filepath"
	"time"
)

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			ClientID:       "test-client-id",
			ClientSecret:   "test-client-secret",
			RedirectURI:    DefaultRedirectURI,
			RequestTimeout: 2 * time.Second,
		},
		Search: SearchConfig{
			Debounce:       DefaultDebounce,
			MaxQueryLength: 256,
		},
		Playback: PlaybackConfig{
			SettleDelay: DefaultSettleDelay,
		},
		Storage: StorageConfig{
			TokenPath: filepath.Join(os.TempDir(), "sptui-test-token.db"),
		},
		Log: LogConfig{
			Level: "off",
		},
		UI:   defaultConfig().UI,
		Keys: defaultConfig().Keys,
	}
}
