package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pders01/sptui/internal/validation"
)

type Config struct {
	Spotify  SpotifyConfig  `mapstructure:"spotify"`
	Search   SearchConfig   `mapstructure:"search"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type SpotifyConfig struct {
	ClientID       string        `mapstructure:"client_id" validate:"required"`
	ClientSecret   string        `mapstructure:"client_secret" validate:"required"`
	RedirectURI    string        `mapstructure:"redirect_uri" validate:"required,url"`
	Market         string        `mapstructure:"market" validate:"omitempty,len=2"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=1s,lte=2m"`
	// Browser opens the authorization URL; empty picks the platform default.
	Browser string `mapstructure:"browser"`
}

type SearchConfig struct {
	Debounce       time.Duration `mapstructure:"debounce" validate:"gte=0s,lte=5s"`
	MaxQueryLength int           `mapstructure:"max_query_length" validate:"min=1,max=1024"`
}

type PlaybackConfig struct {
	SettleDelay time.Duration `mapstructure:"settle_delay" validate:"gte=0s,lte=5s"`
}

type StorageConfig struct {
	TokenPath string `mapstructure:"token_path" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error off"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary" validate:"omitempty,hexcolor"`
	Accent     string `mapstructure:"accent" validate:"omitempty,hexcolor"`
	Background string `mapstructure:"background" validate:"omitempty,hexcolor"`
	Surface    string `mapstructure:"surface" validate:"omitempty,hexcolor"`
	Text       string `mapstructure:"text" validate:"omitempty,hexcolor"`
	Muted      string `mapstructure:"muted" validate:"omitempty,hexcolor"`
	Error      string `mapstructure:"error" validate:"omitempty,hexcolor"`
	Success    string `mapstructure:"success" validate:"omitempty,hexcolor"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit        string `mapstructure:"quit" validate:"required"`
	FocusSearch string `mapstructure:"focus_search" validate:"required"`
	Blur        string `mapstructure:"blur" validate:"required"`
	PlayPause   string `mapstructure:"play_pause" validate:"required"`
	Next        string `mapstructure:"next" validate:"required"`
	Previous    string `mapstructure:"previous" validate:"required"`
	Help        string `mapstructure:"help" validate:"required"`
}

const (
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
	DefaultDebounce    = 200 * time.Millisecond
	DefaultSettleDelay = 100 * time.Millisecond
)

// SecretFiles are loaded into the environment before the config is read.
var SecretFiles = []string{"secrets.env", ".env"}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI:    DefaultRedirectURI,
			RequestTimeout: 10 * time.Second,
		},
		Search: SearchConfig{
			Debounce:       DefaultDebounce,
			MaxQueryLength: 256,
		},
		Playback: PlaybackConfig{
			SettleDelay: DefaultSettleDelay,
		},
		Storage: StorageConfig{
			TokenPath: filepath.Join(homeDir, ".sptui", "token.db"),
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".sptui", "sptui.log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#B266FF",
				Accent:     "#D9B3FF",
				Background: "#0F0F1A",
				Surface:    "#1A1A28",
				Text:       "#E0E0E0",
				Muted:      "#8A8AA3",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:        "q",
				FocusSearch: "ctrl+f",
				Blur:        "esc",
				PlayPause:   "space",
				Next:        "n",
				Previous:    "p",
				Help:        "?",
			},
		},
	}
}

// LoadSecrets reads dotenv files into the process environment. Variables that are
// already set win, missing files are skipped.
func LoadSecrets(files ...string) error {
	if len(files) == 0 {
		files = SecretFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("spotify.client_id", cfg.Spotify.ClientID)
	v.SetDefault("spotify.client_secret", cfg.Spotify.ClientSecret)
	v.SetDefault("spotify.redirect_uri", cfg.Spotify.RedirectURI)
	v.SetDefault("spotify.market", cfg.Spotify.Market)
	v.SetDefault("spotify.browser", cfg.Spotify.Browser)
	v.SetDefault("spotify.request_timeout", cfg.Spotify.RequestTimeout)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.max_query_length", cfg.Search.MaxQueryLength)
	v.SetDefault("playback.settle_delay", cfg.Playback.SettleDelay)
	v.SetDefault("storage.token_path", cfg.Storage.TokenPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)

	c := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", c.Primary)
	v.SetDefault("ui.colors.accent", c.Accent)
	v.SetDefault("ui.colors.background", c.Background)
	v.SetDefault("ui.colors.surface", c.Surface)
	v.SetDefault("ui.colors.text", c.Text)
	v.SetDefault("ui.colors.muted", c.Muted)
	v.SetDefault("ui.colors.error", c.Error)
	v.SetDefault("ui.colors.success", c.Success)

	b := cfg.Keys.Bindings
	v.SetDefault("keys.bindings.quit", b.Quit)
	v.SetDefault("keys.bindings.focus_search", b.FocusSearch)
	v.SetDefault("keys.bindings.blur", b.Blur)
	v.SetDefault("keys.bindings.play_pause", b.PlayPause)
	v.SetDefault("keys.bindings.next", b.Next)
	v.SetDefault("keys.bindings.previous", b.Previous)
	v.SetDefault("keys.bindings.help", b.Help)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "sptui")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SPTUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The names the Spotify tooling conventionally uses.
	_ = v.BindEnv("spotify.client_id", "SPTUI_SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_ID")
	_ = v.BindEnv("spotify.client_secret", "SPTUI_SPOTIFY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET")
	_ = v.BindEnv("spotify.redirect_uri", "SPTUI_SPOTIFY_REDIRECT_URI", "SPOTIFY_REDIRECT_URI")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// Validate checks the settings needed to talk to Spotify. Commands that never reach
// the API (version, config generate) skip it.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := validation.NewRedirectURIValidator().Validate(c.Spotify.RedirectURI); err != nil {
		return fmt.Errorf("invalid config: spotify.redirect_uri: %w", err)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}
	expanded, err := validation.ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPaths(cfg *Config) {
	cfg.Storage.TokenPath = expandPath(cfg.Storage.TokenPath)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings keep the TOML readable
	spotifyCfg := map[string]interface{}{
		"client_id":       config.Spotify.ClientID,
		"client_secret":   config.Spotify.ClientSecret,
		"redirect_uri":    config.Spotify.RedirectURI,
		"market":          config.Spotify.Market,
		"browser":         config.Spotify.Browser,
		"request_timeout": config.Spotify.RequestTimeout.String(),
	}
	searchCfg := map[string]interface{}{
		"debounce":         config.Search.Debounce.String(),
		"max_query_length": config.Search.MaxQueryLength,
	}
	playbackCfg := map[string]interface{}{
		"settle_delay": config.Playback.SettleDelay.String(),
	}

	v.Set("spotify", spotifyCfg)
	v.Set("search", searchCfg)
	v.Set("playback", playbackCfg)
	v.Set("storage", map[string]interface{}{"token_path": config.Storage.TokenPath})
	v.Set("log", map[string]interface{}{"level": config.Log.Level, "file": config.Log.File})
	c := config.UI.Colors
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":    c.Primary,
			"accent":     c.Accent,
			"background": c.Background,
			"surface":    c.Surface,
			"text":       c.Text,
			"muted":      c.Muted,
			"error":      c.Error,
			"success":    c.Success,
		},
	})
	b := config.Keys.Bindings
	v.Set("keys", map[string]interface{}{
		"bindings": map[string]interface{}{
			"quit":         b.Quit,
			"focus_search": b.FocusSearch,
			"blur":         b.Blur,
			"play_pause":   b.PlayPause,
			"next":         b.Next,
			"previous":     b.Previous,
			"help":         b.Help,
		},
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultPath is where Load looks first when no path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sptui", "config.toml")
}
