package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

type Config struct {
	OmdbAPIKey            string  `mapstructure:"omdb_api_key"`
	OmdbBaseURL           string  `mapstructure:"omdb_base_url"`
	ImdbBaseURL           string  `mapstructure:"imdb_base_url"`
	ProxyConnectionString string  `mapstructure:"proxy_connection_string"`
	ClientTimeout         string  `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string  `mapstructure:"user_agent"`
	RequestsPerSecond     float64 `mapstructure:"requests_per_second"` // 0 disables pacing
	Retry                 struct {
		MaxRetries int    `mapstructure:"max_retries"`
		Delay      string `mapstructure:"delay"` // initial backoff, Go duration string
	} `mapstructure:"retry"`
	LogLevel string `mapstructure:"log_level"`
	Cache    struct {
		Provider string `mapstructure:"provider"` // file, memory, redis or badger
		Dir      string `mapstructure:"dir"`      // backing directory for file and badger providers
		Size     int    `mapstructure:"size"`     // maximum number of entries for LRU-backed providers, 0 = unbounded
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	configureLogLevel(config.LogLevel)
	globalConfig = config
}

// configureLogLevel parses and applies the log level, defaulting to info
func configureLogLevel(name string) {
	level := zerolog.InfoLevel
	if name != "" {
		if parsedLevel, err := zerolog.ParseLevel(name); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", name).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
}

// LoadConfig reads config.yaml, a .env file and the environment.
func LoadConfig() (*Config, error) {
	return load(nil)
}

// LoadConfigWithFlags reloads the configuration with command-line flags
// layered on top and makes it the global configuration. Flags are bound by
// name to the matching dotted key, e.g. --cache.dir.
func LoadConfigWithFlags(flags *pflag.FlagSet) (*Config, error) {
	config, err := load(flags)
	if err != nil {
		return nil, err
	}
	configureLogLevel(config.LogLevel)
	globalConfig = config
	return config, nil
}

func load(flags *pflag.FlagSet) (*Config, error) {
	// A missing .env file is the normal case outside of local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("omdb_api_key", "APP_OMDB_API_KEY", "OMDB_API_KEY")
	_ = v.BindEnv("sentry_dsn", "APP_SENTRY_DSN", "SENTRY_DSN")

	v.SetDefault("omdb_base_url", "http://www.omdbapi.com")
	v.SetDefault("imdb_base_url", "https://www.imdb.com")
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("requests_per_second", 2.0)
	v.SetDefault("retry.max_retries", 2)
	v.SetDefault("retry.delay", "500ms")
	v.SetDefault("cache.provider", "file")
	v.SetDefault("cache.dir", "./cache")
	v.SetDefault("cache.size", 0)
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("metrics.address", "localhost")
	v.SetDefault("metrics.port", 9090)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
