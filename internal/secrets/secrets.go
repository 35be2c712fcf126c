// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognized keys are BackendAPIKey and ArxivContactEmail; other files are
// returned as-is.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key names read by paprly.
const (
	// BackendAPIKey is sent as a bearer token to the search/summarize backend.
	BackendAPIKey = "backend-api-key"

	// ArxivContactEmail is appended to the arXiv User-Agent as a mailto.
	ArxivContactEmail = "arxiv-contact-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Get returns secrets[key], or fallback when fallback is non-empty.
// Explicit configuration always wins over a secret file.
func Get(secrets map[string]string, key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return secrets[key]
}
