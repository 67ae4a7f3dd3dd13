// Package config loads the application configuration and the optional .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fjacquet/pain001/internal/logging"
)

// FindEnvFile returns the first .env in the working directory or its parent.
func FindEnvFile() (string, bool) {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// LoadEnv loads environment variables from the .env file if one exists.
// Variables already set in the environment are not overridden.
func LoadEnv(logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	envFile, ok := FindEnvFile()
	if !ok {
		logger.Debug("No .env file found, using environment variables")
		return nil
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WithError(err).Warn("Error loading .env file")
		return err
	}
	logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldInputFile, Value: envFile})
	return nil
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
