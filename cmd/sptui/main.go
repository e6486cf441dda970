package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pders01/sptui/internal/browser"
	"github.com/pders01/sptui/internal/config"
	"github.com/pders01/sptui/internal/debuglog"
	"github.com/pders01/sptui/internal/spotify"
	"github.com/pders01/sptui/internal/storage"
	"github.com/pders01/sptui/internal/tui"
	"github.com/pders01/sptui/internal/worker"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	quiet      bool
	logLevel   string
	noBrowser  bool
)

var errNotSignedIn = errors.New("not signed in to Spotify, run `sptui auth` first")

var rootCmd = &cobra.Command{
	Use:           "sptui",
	Short:         "Search Spotify and control playback from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("sptui %s\n", Version)
		fmt.Println("Spotify terminal client")
		fmt.Println("github.com/pders01/sptui")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a default configuration file",
	Run: func(_ *cobra.Command, _ []string) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize sptui with your Spotify account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAuth(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored Spotify token",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		store, err := storage.NewStore(cfg.Storage.TokenPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteToken(); err != nil {
			return errors.Wrap(err, "deleting token")
		}
		fmt.Println("Logged out. Run `sptui auth` to sign in again.")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")
	authCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the authorization URL without opening a browser")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, authCmd, logoutCmd)
}

// loadConfig reads secrets and the config file. Commands that talk to Spotify
// ask for validation.
func loadConfig(validate bool) (*config.Config, error) {
	if err := config.LoadSecrets(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
}

func authConfig(cfg *config.Config) spotify.AuthConfig {
	return spotify.AuthConfig{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURI:  cfg.Spotify.RedirectURI,
	}
}

// newLauncher honours spotify.browser, which may carry arguments
// ("open -a Safari").
func newLauncher(cfg *config.Config) *browser.Launcher {
	fields := strings.Fields(cfg.Spotify.Browser)
	if len(fields) == 0 {
		return browser.NewLauncher()
	}
	return browser.NewLauncher(browser.WithOpener(fields[0], fields[1:]...))
}

func runAuth(ctx context.Context) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	setupLogging(cfg)
	defer debuglog.Close()

	store, err := storage.NewStore(cfg.Storage.TokenPath)
	if err != nil {
		return err
	}
	defer store.Close()

	launcher := newLauncher(cfg)
	auth := spotify.NewAuthenticator(authConfig(cfg))
	tok, err := spotify.Authorize(ctx, auth, cfg.Spotify.RedirectURI, func(url string) {
		fmt.Println("Please visit the following URL to authorize sptui:")
		fmt.Println()
		fmt.Println(url)
		fmt.Println()
		if !noBrowser {
			if err := launcher.Open(url); err != nil {
				debuglog.Warnf("could not open browser: %v", err)
				fmt.Println("Could not open a browser, copy the URL above instead.")
			} else {
				fmt.Printf("Opened with %s.\n", launcher.Opener())
			}
		}
		fmt.Println("Waiting for authorization...")
	})
	if err != nil {
		return errors.Wrap(err, "authorization failed")
	}

	if err := store.SaveToken(tok); err != nil {
		return errors.Wrap(err, "saving token")
	}
	debuglog.Infof("stored new token, expires %s", tok.Expiry)
	fmt.Printf("Authorization successful. Token saved to %s\n", cfg.Storage.TokenPath)
	return nil
}

func runTUI(ctx context.Context) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	setupLogging(cfg)
	defer debuglog.Close()

	tui.ApplyTheme(cfg.UI.Colors)

	store, err := storage.NewStore(cfg.Storage.TokenPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if !store.HasToken() {
		return errNotSignedIn
	}

	auth := spotify.NewAuthenticator(authConfig(cfg))
	httpClient, err := spotify.NewHTTPClient(ctx, auth, store)
	if err != nil {
		if errors.Is(err, spotify.ErrNotAuthenticated) {
			return errNotSignedIn
		}
		return err
	}

	if !quiet {
		tui.ShowBanner(Version)
	}

	client := spotify.New(httpClient,
		spotify.WithMarket(cfg.Spotify.Market),
		spotify.WithTimeout(cfg.Spotify.RequestTimeout),
	)

	app := tui.NewApp(cfg, client, worker.New(1))
	defer app.Close()

	debuglog.Infof("starting sptui %s", Version)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
