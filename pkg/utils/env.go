package utils

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads environment variables from the given .env files, with later
// files taking precedence. Variables already set in the process environment
// always win over file values.
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	// Merge each file in order
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			continue
		}
		for key, value := range values {
			config[key] = value
		}
	}

	// Overlay the process environment
	for _, env := range os.Environ() {
		if key, value, ok := strings.Cut(env, "="); ok && key != "" {
			config[key] = value
		}
	}

	return config
}

// GetEnvWithDefault returns an environment variable value or a default if not set
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
