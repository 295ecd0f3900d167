package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/paperlens/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set PaperLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "source_path: %s\n", c.SourcePath)
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "strict: %t\n", c.Strict)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", c.Sheet)
		}
		fmt.Fprintf(out, "top_n: %d\n", c.TopN)
		fmt.Fprintf(out, "sample_rows: %d\n", c.SampleRows)
		if len(c.ExtraStopwords) > 0 {
			fmt.Fprintf(out, "extra_stopwords: %s\n", strings.Join(c.ExtraStopwords, ","))
		}
		fmt.Fprintf(out, "chart_width: %d\n", c.ChartWidth)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "session_ttl_min: %d\n", c.SessionTTLMin)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// start from file+env+defaults, not from flag overrides of this run
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "source_path":
		c.SourcePath = val
	case "max_rows":
		c.MaxRows, err = atoi()
	case "strict":
		c.Strict, err = strconv.ParseBool(val)
		if err != nil {
			err = fmt.Errorf("invalid bool for strict: %v", val)
		}
	case "delimiter":
		c.Delimiter = val
		_, err = loadOptions(c)
	case "sheet":
		c.Sheet = val
	case "top_n":
		c.TopN, err = atoi()
	case "sample_rows":
		c.SampleRows, err = atoi()
	case "extra_stopwords":
		c.ExtraStopwords = nil
		for _, w := range strings.Split(val, ",") {
			if w = strings.TrimSpace(w); w != "" {
				c.ExtraStopwords = append(c.ExtraStopwords, w)
			}
		}
	case "chart_width":
		c.ChartWidth, err = atoi()
	case "listen_addr":
		c.ListenAddr = val
	case "session_ttl_min":
		c.SessionTTLMin, err = atoi()
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
