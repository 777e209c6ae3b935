package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/flaneur2020/binpack/binpack/compact"
	"github.com/flaneur2020/binpack/binpack/logger"
)

// Default chunk size, kept in sync with binpack.SuggestedChunkSize.
const defaultChunkSize = 1 << 20

// Config holds the runtime settings of the binpack tools
type Config struct {
	LogLevel    logger.LogLevel
	Workers     int
	ChunkSize   int
	DisableBMI2 bool
}

// Load reads configuration from environment variables and an optional .env
// file in the working directory. Extra files, when given, are read instead
// of .env. Variables already set in the environment win over files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		// Environment variables can still be set directly
		logger.Debug("no .env loaded (this is OK if using environment variables): %v", err)
	}

	level, err := logger.ParseLevel(getEnv("BINPACK_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("BINPACK_LOG_LEVEL: %w", err)
	}

	config := &Config{
		LogLevel:    level,
		Workers:     getIntEnv("BINPACK_WORKERS", runtime.NumCPU()),
		ChunkSize:   getIntEnv("BINPACK_CHUNK_SIZE", defaultChunkSize),
		DisableBMI2: getBoolEnv("BINPACK_DISABLE_BMI2", false),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate checks that the values are usable
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("BINPACK_WORKERS must be positive, got %d", c.Workers)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("BINPACK_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	return nil
}

// Apply pushes the process-wide settings into the logger and the position
// codec.
func (c *Config) Apply() {
	logger.SetLogLevel(c.LogLevel)
	if c.DisableBMI2 {
		compact.SetBMI2(false)
	}
	logger.Debug("config: workers=%d chunkSize=%d bmi2=%v", c.Workers, c.ChunkSize, compact.UsingBMI2())
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
		logger.Warn("ignoring %s=%q: not an integer", key, value)
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
		logger.Warn("ignoring %s=%q: not a boolean", key, value)
	}
	return defaultValue
}
