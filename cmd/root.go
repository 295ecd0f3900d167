package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/paperlens/internal/config"
	"github.com/KaramelBytes/paperlens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Shared logger, rebuilt after config load
	logger = logging.New("info", os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "paperlens",
	Short: "PaperLens: explore research-paper metadata (CORD-19 style)",
	Long: `PaperLens loads a bounded sample of a paper-metadata table, cleans it, and reports
the top journals, publications per year and the most frequent title/abstract words,
either as a one-shot terminal report (analyze) or as an interactive dashboard (serve).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.paperlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = defaultConfig()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") && logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	logger = logging.New(cfg.LogLevel, os.Stderr)
	logger.Debug("config loaded", "file", cfgFile, "source_path", cfg.SourcePath, "max_rows", cfg.MaxRows)
}

// defaultConfig mirrors the config defaults for runs where loading failed.
func defaultConfig() *cfgpkg.Global {
	return &cfgpkg.Global{
		SourcePath:    cfgpkg.DefaultSourcePath,
		MaxRows:       50000,
		TopN:          10,
		SampleRows:    10,
		ChartWidth:    60,
		ListenAddr:    cfgpkg.DefaultListenAddr,
		SessionTTLMin: 30,
		LogLevel:      "info",
	}
}

// currentConfig returns the loaded config, loading it on first use.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}
