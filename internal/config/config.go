package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/paperlens/internal/utils"
)

// Global configuration structure.
type Global struct {
	SourcePath     string   `mapstructure:"source_path" yaml:"source_path" validate:"required"`
	MaxRows        int      `mapstructure:"max_rows" yaml:"max_rows" validate:"gte=0"`
	Strict         bool     `mapstructure:"strict" yaml:"strict"`
	Delimiter      string   `mapstructure:"delimiter" yaml:"delimiter"`
	Sheet          string   `mapstructure:"sheet" yaml:"sheet"`
	TopN           int      `mapstructure:"top_n" yaml:"top_n" validate:"gte=1,lte=100"`
	SampleRows     int      `mapstructure:"sample_rows" yaml:"sample_rows" validate:"gte=0,lte=1000"`
	ExtraStopwords []string `mapstructure:"extra_stopwords" yaml:"extra_stopwords"`
	ChartWidth     int      `mapstructure:"chart_width" yaml:"chart_width" validate:"gte=10,lte=400"`

	// Dashboard
	ListenAddr    string `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required,hostname_port"`
	SessionTTLMin int    `mapstructure:"session_ttl_min" yaml:"session_ttl_min" validate:"gte=1"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Defaults mirrored by Load when nothing else is set.
const (
	DefaultSourcePath = "metadata.csv"
	DefaultListenAddr = "127.0.0.1:8501"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and reports every violation in one error.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Dir returns ~/.paperlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".paperlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.paperlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PAPERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source_path", DefaultSourcePath)
	v.SetDefault("max_rows", 50000)
	v.SetDefault("strict", false)
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet", "")
	v.SetDefault("top_n", 10)
	v.SetDefault("sample_rows", 10)
	v.SetDefault("extra_stopwords", []string{})
	v.SetDefault("chart_width", 60)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("session_ttl_min", 30)
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine; a broken one is not
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !(cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return &c, nil
}
