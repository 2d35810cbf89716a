package record

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	KindEnv     = "RECORD_KIND"
	LogLevelEnv = "RECORD_LOG_LEVEL"
)

type Config struct {
	Kind     string
	LogLevel log.Level
}

// LoadConfig reads .env in production and .env.dev otherwise. Variables
// already set in the environment take precedence over the files.
func LoadConfig(isProd bool) (Config, error) {
	if isProd {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}

	config := Config{
		Kind:     os.Getenv(KindEnv),
		LogLevel: log.InfoLevel,
	}

	if config.Kind == "" {
		config.Kind = DefaultKind
	}

	if lvl := os.Getenv(LogLevelEnv); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", LogLevelEnv, err)
		}
		config.LogLevel = parsed
	}

	return config, nil
}
