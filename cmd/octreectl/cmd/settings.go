package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BuildSettings configures octreectl build. Flags on the build command bind
// into the same viper.Viper that reads --config, so an explicit flag always
// wins over the file and the file always wins over these defaults.
type BuildSettings struct {
	Ranks            int  `mapstructure:"ranks"`
	Balance          bool `mapstructure:"balance"`
	BalanceMaxRounds int  `mapstructure:"balance_max_rounds"`
	Workers          int  `mapstructure:"workers"`
	LMax             int  `mapstructure:"lmax"`
}

func setBuildDefaults(v *viper.Viper) {
	v.SetDefault("ranks", 1)
	v.SetDefault("balance", false)
	v.SetDefault("balance_max_rounds", 0)
	v.SetDefault("workers", 0)
	v.SetDefault("lmax", 16)
}

// LoadBuildSettings binds flags and, when configPath is non-empty, layers a
// YAML/TOML/JSON config file under them (viper infers the format from the
// extension).
func LoadBuildSettings(configPath string, flags *pflag.FlagSet) (*BuildSettings, error) {
	v := viper.New()
	setBuildDefaults(v)

	// Flag names are dash-cased for the CLI but bound one by one onto their
	// underscore-cased mapstructure key, since viper.BindPFlags would instead
	// key each one by its literal (dashed) flag name.
	binds := map[string]string{
		"ranks":              "ranks",
		"balance":            "balance",
		"balance-max-rounds": "balance_max_rounds",
		"workers":            "workers",
		"lmax":               "lmax",
	}
	for flagName, key := range binds {
		if flag := flags.Lookup(flagName); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("octreectl: bind flag %s: %w", flagName, err)
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("octreectl: config file %s not found: %w", configPath, err)
			}
			return nil, fmt.Errorf("octreectl: read config %s: %w", configPath, err)
		}
	}

	var s BuildSettings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("octreectl: unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// LoadBuildSettingsFromReader parses content as configType without touching
// the filesystem, for tests.
func LoadBuildSettingsFromReader(configType string, content []byte) (*BuildSettings, error) {
	v := viper.New()
	setBuildDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("octreectl: parse config: %w", err)
	}

	var s BuildSettings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("octreectl: unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate rejects settings that would make distree.Build's preconditions
// impossible to satisfy.
func (s *BuildSettings) Validate() error {
	if s.Ranks <= 0 {
		return fmt.Errorf("octreectl: ranks must be positive, got %d", s.Ranks)
	}
	if s.LMax <= 0 || s.LMax > 255 {
		return fmt.Errorf("octreectl: lmax must be in (0, 255], got %d", s.LMax)
	}
	return nil
}
