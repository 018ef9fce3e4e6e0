// Package env loads .env files and reads process environment variables.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads the given .env files (".env" when none are given) into the
// process environment. Variables already set are not overridden and missing
// files are skipped. It reports the files that were loaded.
func Load(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	loaded := make([]string, 0, len(files))
	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("env: load %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

// Lookup reports the value of key. Blank values count as unset.
func Lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// Get returns the value of key or fallback when it is unset.
func Get(key, fallback string) string {
	if value, ok := Lookup(key); ok {
		return value
	}
	return fallback
}
