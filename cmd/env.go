package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// The env file loaded when --env-file is not specified.
const defaultEnvFile = ".env"

// Load environment overrides from envFile. Values already present in the
// process environment take precedence. A missing default env file is
// ignored.
func loadEnv(envFile string) error {
	if envFile == "" {
		envFile = defaultEnvFile
	}

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) && envFile == defaultEnvFile {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		return err
	}
	logger.Infof("loaded environment from %s", envFile)
	return nil
}
