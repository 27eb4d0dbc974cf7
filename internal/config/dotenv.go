package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads KEY=VALUE pairs from a dotenv file into the process environment.
// A missing file is not an error, and variables already present in the
// environment are not overwritten. Nothing is loaded when APP_ENV is production.
func loadDotEnv(path string) error {
	if os.Getenv("APP_ENV") == envProduction {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
