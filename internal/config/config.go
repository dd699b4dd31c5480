package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/sitescout/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the feature store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// DSN returns the connection string for the configured driver.
func (c StoreConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.DatabaseURL
	}
	return c.Path
}

// EngineConfig configures recommendation engine defaults.
type EngineConfig struct {
	NumCandidates  int          `yaml:"num_candidates" mapstructure:"num_candidates"`
	TopN           int          `yaml:"top_n" mapstructure:"top_n"`
	GridSpacingDeg float64      `yaml:"grid_spacing_deg" mapstructure:"grid_spacing_deg"`
	ChunkSize      int          `yaml:"chunk_size" mapstructure:"chunk_size"`
	Workers        int          `yaml:"workers" mapstructure:"workers"`
	CellKM         float64      `yaml:"cell_km" mapstructure:"cell_km"`
	ProfilesPath   string       `yaml:"profiles_path" mapstructure:"profiles_path"`
	Bounds         model.Bounds `yaml:"bounds" mapstructure:"bounds"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port         int     `yaml:"port" mapstructure:"port"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateBurst    int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "sitescout.db")
	v.SetDefault("engine.num_candidates", 50)
	v.SetDefault("engine.top_n", 10)
	v.SetDefault("engine.grid_spacing_deg", 0.75)
	v.SetDefault("engine.chunk_size", 250)
	v.SetDefault("engine.workers", 4)
	v.SetDefault("engine.cell_km", 25.0)
	v.SetDefault("engine.bounds.min_lat", model.DefaultBounds.MinLat)
	v.SetDefault("engine.bounds.max_lat", model.DefaultBounds.MaxLat)
	v.SetDefault("engine.bounds.min_lon", model.DefaultBounds.MinLon)
	v.SetDefault("engine.bounds.max_lon", model.DefaultBounds.MaxLon)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Engine.Bounds.Validate(); err != nil {
		return nil, eris.Wrap(err, "config: engine bounds")
	}

	return &cfg, nil
}

// Validate checks the fields required for the given command mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimitRPS <= 0 {
			problems = append(problems, "server.rate_limit_rps must be > 0")
		}
		problems = append(problems, c.storeProblems()...)
	case "layers":
		problems = append(problems, c.storeProblems()...)
	case "recommend":
		// Runs entirely from the feature store and request input.
		problems = append(problems, c.storeProblems()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Engine.NumCandidates < 1 {
		problems = append(problems, "engine.num_candidates must be >= 1")
	}
	if c.Engine.TopN < 1 {
		problems = append(problems, "engine.top_n must be >= 1")
	}
	if c.Engine.Workers < 1 || c.Engine.Workers > 64 {
		problems = append(problems, "engine.workers must be between 1 and 64")
	}
	if c.Engine.GridSpacingDeg <= 0 {
		problems = append(problems, "engine.grid_spacing_deg must be > 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) storeProblems() []string {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return []string{"store.path is required for the sqlite driver"}
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for the postgres driver"}
		}
	default:
		return []string{"store.driver must be sqlite or postgres"}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
