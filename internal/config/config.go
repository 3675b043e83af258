// Package config loads biopath settings from a YAML file and BIOPATH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peterkuimelis/biopath/internal/game"
	"github.com/peterkuimelis/biopath/internal/score"
)

// EnvPrefix is prepended to every environment override, e.g. BIOPATH_GAME_SEED.
const EnvPrefix = "BIOPATH"

type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Scores  score.Options `mapstructure:"scores"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

type GameConfig struct {
	Seed    uint64 `mapstructure:"seed"`    // 0 picks a random seed
	Endless bool   `mapstructure:"endless"` // start every run in endless mode
	Catalog string `mapstructure:"catalog"` // YAML catalog file; empty for the built-in cycle
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
	Events bool   `mapstructure:"events"` // forward game events to the structured log
}

type ServerConfig struct {
	TCPAddress  string `mapstructure:"tcp_address"`
	HTTPAddress string `mapstructure:"http_address"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.endless", false)
	v.SetDefault("game.catalog", "")

	v.SetDefault("scores.backend", score.BackendMemory)
	v.SetDefault("scores.path", "biopath-best.yaml")
	v.SetDefault("scores.dsn", "")
	v.SetDefault("scores.profile", score.DefaultProfile)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.events", false)

	v.SetDefault("server.tcp_address", "localhost:7420")
	v.SetDefault("server.http_address", "localhost:8080")
}

// Load reads the config file at path, if any, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// OpenCatalog loads the configured catalog file, or the built-in cycle.
func (g GameConfig) OpenCatalog() (*game.Catalog, error) {
	if g.Catalog == "" {
		return game.DefaultCatalog(), nil
	}
	return game.LoadCatalog(g.Catalog)
}

// Build creates the zap logger described by the logging section.
func (l LoggingConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}

	var zapCfg zap.Config
	switch l.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "", "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("logging format %q: want console or json", l.Format)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
