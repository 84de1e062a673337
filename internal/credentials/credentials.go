// Package credentials loads API keys from local files or the environment.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ErrEmptyCredential indicates a key source that exists but holds nothing.
var ErrEmptyCredential = errors.New("credential is empty")

// LoadKeyFile reads a single secret string from a local file. A missing
// file is a configuration error surfaced to the caller; nothing here
// retries or falls back.
func LoadKeyFile(path string) (string, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyCredential, path)
	}

	return key, nil
}

// LoadEnv reads a secret from the environment, loading a .env file from the
// working directory first if one exists.
func LoadEnv(name string) (string, error) {
	// Best effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	key := strings.TrimSpace(os.Getenv(name))
	if key == "" {
		return "", fmt.Errorf("%w: $%s", ErrEmptyCredential, name)
	}

	return key, nil
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}
