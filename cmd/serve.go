package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/paperlens/internal/analysis"
	"github.com/KaramelBytes/paperlens/internal/dashboard"
	"github.com/KaramelBytes/paperlens/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	srvAddr    string
	srvMaxRows int
	srvStrict  bool
	srvTop     int
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve the interactive dashboard with a year-range filter",
	Long: `Starts a local web dashboard over the cleaned table. The page offers a year range,
three charts that follow it, and a sample of the filtered rows. JSON endpoints live under
/api, Prometheus metrics at /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		f := cmd.Flags()
		if f.Changed("addr") {
			c.ListenAddr = srvAddr
		}
		if f.Changed("max-rows") {
			c.MaxRows = srvMaxRows
		}
		if f.Changed("strict") {
			c.Strict = srvStrict
		}
		if f.Changed("top") {
			c.TopN = srvTop
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if len(args) == 1 {
			c.SourcePath = args[0]
		}
		lopt, err := loadOptions(c)
		if err != nil {
			return err
		}

		srv, err := dashboard.New(dashboard.Options{
			Addr:       c.ListenAddr,
			SourcePath: c.SourcePath,
			Load:       lopt,
			Summary:    summaryOptions(c),
			SessionTTL: time.Duration(c.SessionTTLMin) * time.Minute,
		}, logger)
		if err != nil {
			return err
		}
		// a failed warmup still serves: the page reports the error inline
		if err := srv.Warm(); err != nil {
			logger.Warn("initial load failed", "source", c.SourcePath, "error", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dashboard on http://%s (Ctrl+C to stop)\n", c.ListenAddr)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "127.0.0.1:8501", "listen address")
	serveCmd.Flags().IntVar(&srvMaxRows, "max-rows", dataset.DefaultMaxRows, "maximum rows to read from the start of the file")
	serveCmd.Flags().BoolVar(&srvStrict, "strict", false, "fail on malformed rows instead of skipping them")
	serveCmd.Flags().IntVar(&srvTop, "top", analysis.DefaultTopN, "entries in the journal and word rankings")
}
