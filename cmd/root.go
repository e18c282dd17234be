package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/refview/internal/app"
	"github.com/zjrosen/refview/internal/config"
	"github.com/zjrosen/refview/internal/git"
	"github.com/zjrosen/refview/internal/loader"
	"github.com/zjrosen/refview/internal/log"
	"github.com/zjrosen/refview/internal/store"
	"github.com/zjrosen/refview/internal/term"
	"github.com/zjrosen/refview/internal/tracing"
	"github.com/zjrosen/refview/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "refview",
	Short:   "A terminal ui for browsing git repositories",
	Long:    `A terminal user interface for browsing branches, tags, remotes and commit history, with a multi-layout diff viewer.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/refview/config.yaml)")
	rootCmd.Flags().StringP("path", "p", "",
		"path to the git repository (default: current directory)")
	rootCmd.Flags().Bool("debug", false,
		"write debug logs to ~/.config/refview/refview.log")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic reload when the repository changes")

	_ = viper.BindPFlag("repo_path", rootCmd.Flags().Lookup("path"))
}

func initConfig() {
	defaults := config.Default()
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("commit_limit", defaults.CommitLimit)
	viper.SetDefault("git_timeout_seconds", defaults.GitTimeoutSeconds)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.date_format", defaults.UI.DateFormat)
	viper.SetDefault("diff.layout", defaults.Diff.Layout)
	viper.SetDefault("diff.tab_width", defaults.Diff.TabWidth)
	viper.SetDefault("diff.word_diff", defaults.Diff.WordDiff)
	viper.SetDefault("diff.show_file_list", defaults.Diff.ShowFileList)
	viper.SetDefault("cache.disabled", defaults.Cache.Disabled)
	viper.SetDefault("cache.ttl_seconds", defaults.Cache.TTLSeconds)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .refview/config.yaml (current directory)
		// 2. ~/.config/refview/config.yaml (user config)
		if _, err := os.Stat(".refview/config.yaml"); err == nil {
			viper.SetConfigFile(".refview/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "refview"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a default user config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "refview", "config.yaml")
				if writeErr := config.WriteDefault(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := setupLogging(cmd); err != nil {
		return err
	}

	// Use provided path or current directory
	repoPath := cfg.RepoPath
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
	}

	exec := git.NewRealExecutor(repoPath)
	startCtx := context.Background()
	if !exec.IsGitRepo(startCtx) {
		return fmt.Errorf("%s is not a git repository", repoPath)
	}
	repoRoot, err := exec.RepoRoot(startCtx)
	if err != nil {
		return fmt.Errorf("resolving repository root: %w", err)
	}

	provider, err := newTracingProvider()
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	queryRepo := openQueryStore()

	// Handle --no-auto-refresh flag (negated logic)
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}
	var w *watcher.Watcher
	if cfg.AutoRefresh {
		w, err = watcher.New(watcher.DefaultConfig(filepath.Join(repoRoot, ".git")))
		if err != nil {
			// browsing works without auto-refresh
			log.Warn(log.CatWatcher, "watcher unavailable", "error", err)
			w = nil
		}
	}
	defer func() {
		if w != nil {
			_ = w.Stop()
		}
	}()

	configFilePath := viper.ConfigFileUsed()

	coordOpts := []loader.Option{loader.WithTracer(provider.Tracer())}
	if cfg.GitTimeoutSeconds > 0 {
		coordOpts = append(coordOpts, loader.WithTimeout(time.Duration(cfg.GitTimeoutSeconds)*time.Second))
	}

	model := app.New(app.Deps{
		Exec:       exec,
		Config:     cfg,
		ConfigPath: configFilePath,
		QueryRepo:  queryRepo,
		Watcher:    w,
		Coord:      loader.NewCoordinator(coordOpts...),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if err := term.NewGuard(p).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// setupLogging enables the debug log when requested via flag or env.
func setupLogging(cmd *cobra.Command) error {
	debug, _ := cmd.Flags().GetBool("debug")
	if !debug && os.Getenv("REFVIEW_DEBUG") == "" {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory for debug log: %w", err)
	}
	logPath := filepath.Join(home, ".config", "refview", "refview.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	if _, err := log.Init(logPath); err != nil {
		return fmt.Errorf("initializing debug log: %w", err)
	}
	return nil
}

// newTracingProvider maps the config's tracing section onto the
// provider's own config type.
func newTracingProvider() (*tracing.Provider, error) {
	tc := tracing.DefaultConfig()
	tc.Enabled = cfg.Tracing.Enabled
	if cfg.Tracing.Exporter != "" {
		tc.Exporter = cfg.Tracing.Exporter
	}
	if cfg.Tracing.FilePath != "" {
		tc.FilePath = cfg.Tracing.FilePath
	}
	if cfg.Tracing.OTLPEndpoint != "" {
		tc.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	}
	if cfg.Tracing.SampleRate > 0 {
		tc.SampleRate = cfg.Tracing.SampleRate
	}
	return tracing.NewProvider(tc)
}

// openQueryStore opens the saved-query database. Failures disable
// history rather than blocking startup.
func openQueryStore() *store.Repository {
	if !cfg.History.Enabled {
		return nil
	}
	dbPath := cfg.History.DBPath
	if dbPath == "" {
		dbPath = config.DefaultHistoryDBPath()
	}
	if dbPath == "" {
		return nil
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		log.ErrorErr(log.CatStore, "opening query history database failed", err, "path", dbPath)
		return nil
	}
	return store.NewRepository(db)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
