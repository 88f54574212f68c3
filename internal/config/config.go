package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Dataset declares one known data source.
type Dataset struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Path    string `mapstructure:"path" yaml:"path"`
	Kind    string `mapstructure:"kind" yaml:"kind"`
	YearMin int    `mapstructure:"year_min" yaml:"year_min,omitempty"`
	YearMax int    `mapstructure:"year_max" yaml:"year_max,omitempty"`
}

// Global configuration structure.
type Global struct {
	DataDir  string    `mapstructure:"data_dir" yaml:"data_dir"`
	Datasets []Dataset `mapstructure:"datasets" yaml:"datasets"`

	// Derivation tuning
	TrendThreshold      float64 `mapstructure:"trend_threshold" yaml:"trend_threshold"`
	StrongCorrelation   float64 `mapstructure:"strong_correlation" yaml:"strong_correlation"`
	ModerateCorrelation float64 `mapstructure:"moderate_correlation" yaml:"moderate_correlation"`

	// Ingestion
	MaxRows  int  `mapstructure:"max_rows" yaml:"max_rows"`
	Progress bool `mapstructure:"progress" yaml:"progress"`
}

// FindDataset resolves a declared dataset by name.
func (g *Global) FindDataset(name string) (Dataset, bool) {
	for _, d := range g.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return Dataset{}, false
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.forestlens/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".forestlens")
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
	v.SetEnvPrefix("FORESTLENS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("trend_threshold", 0.5)
	v.SetDefault("strong_correlation", 0.7)
	v.SetDefault("moderate_correlation", 0.3)
	v.SetDefault("max_rows", 200000)
	v.SetDefault("progress", true)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".forestlens")
		_ = os.MkdirAll(dir, 0o755)
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
	// Resolve data_dir default: ~/.forestlens/data
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, ".forestlens", "data")
	}
	return &c, nil
}
