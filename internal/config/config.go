package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// Preprocessing
	MissingThreshold float64 `mapstructure:"missing_threshold" yaml:"missing_threshold"`
	Encode           bool    `mapstructure:"encode" yaml:"encode"`
	MaxCategories    int     `mapstructure:"max_categories" yaml:"max_categories"`
	Normalize        bool    `mapstructure:"normalize" yaml:"normalize"`

	// Analysis and output
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" yaml:"correlation_threshold"`
	OutputFormat         string  `mapstructure:"output_format" yaml:"output_format"`
	TopN                 int     `mapstructure:"top_n" yaml:"top_n"`
	MaxRows              int     `mapstructure:"max_rows" yaml:"max_rows"`
	SplitUnits           bool    `mapstructure:"split_units" yaml:"split_units"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"data_dir",
	"missing_threshold",
	"correlation_threshold",
	"max_categories",
	"encode",
	"normalize",
	"output_format",
	"top_n",
	"max_rows",
	"split_units",
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		DataDir:              "data",
		MissingThreshold:     0.5,
		CorrelationThreshold: 0.8,
		MaxCategories:        10,
		OutputFormat:         "list",
		MaxRows:              100000,
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".colpredict"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.colpredict/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("COLPREDICT")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("missing_threshold", d.MissingThreshold)
	v.SetDefault("correlation_threshold", d.CorrelationThreshold)
	v.SetDefault("max_categories", d.MaxCategories)
	v.SetDefault("encode", d.Encode)
	v.SetDefault("normalize", d.Normalize)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("split_units", d.SplitUnits)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get returns the string form of a configuration value.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_dir":
		return c.DataDir, nil
	case "missing_threshold":
		return strconv.FormatFloat(c.MissingThreshold, 'g', -1, 64), nil
	case "correlation_threshold":
		return strconv.FormatFloat(c.CorrelationThreshold, 'g', -1, 64), nil
	case "max_categories":
		return strconv.Itoa(c.MaxCategories), nil
	case "encode":
		return strconv.FormatBool(c.Encode), nil
	case "normalize":
		return strconv.FormatBool(c.Normalize), nil
	case "output_format":
		return c.OutputFormat, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "split_units":
		return strconv.FormatBool(c.SplitUnits), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Set parses val for key and stores it, rejecting out-of-range values.
func (c *Global) Set(key, val string) error {
	switch key {
	case "data_dir":
		c.DataDir = val
	case "missing_threshold", "correlation_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("invalid value for %s: %v (want a number between 0 and 1)", key, val)
		}
		if key == "missing_threshold" {
			c.MissingThreshold = f
		} else {
			c.CorrelationThreshold = f
		}
	case "max_categories", "top_n", "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "max_categories":
			c.MaxCategories = i
		case "top_n":
			c.TopN = i
		default:
			c.MaxRows = i
		}
	case "encode", "normalize", "split_units":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		switch key {
		case "encode":
			c.Encode = b
		case "normalize":
			c.Normalize = b
		default:
			c.SplitUnits = b
		}
	case "output_format":
		switch f := strings.ToLower(val); f {
		case "list", "markdown", "json", "yaml":
			c.OutputFormat = f
		default:
			return fmt.Errorf("invalid output_format: %s (use list, markdown, json or yaml)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
