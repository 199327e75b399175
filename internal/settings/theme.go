// Package settings stores simple user preferences in a JSON file.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "trading-journal/internal/errors"
)

// Theme values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultUser keys the theme preference until per-user auth exists.
const DefaultUser = "default"

// ThemeStore is a file-backed theme preference store. The file holds a JSON
// map of user -> theme; access is serialized with a mutex since it is the
// one piece of shared mutable state across requests.
type ThemeStore struct {
	path string
	mu   sync.Mutex
}

// NewThemeStore creates a theme store backed by the given file path.
func NewThemeStore(path string) *ThemeStore {
	return &ThemeStore{path: path}
}

// Get returns the saved theme for the user, defaulting to dark.
func (s *ThemeStore) Get(user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	themes, err := s.load()
	if err != nil {
		return "", err
	}
	if theme, ok := themes[user]; ok {
		return theme, nil
	}
	return ThemeDark, nil
}

// Set saves the theme for the user. Input is normalized to lowercase and
// must be dark or light.
func (s *ThemeStore) Set(user, theme string) (string, error) {
	theme = strings.ToLower(theme)
	if theme != ThemeDark && theme != ThemeLight {
		return "", apperrors.NewValidationError("theme", theme, "must be either 'dark' or 'light'")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	themes, err := s.load()
	if err != nil {
		return "", err
	}
	themes[user] = theme

	data, err := json.Marshal(themes)
	if err != nil {
		return "", apperrors.Wrap(err, "encoding themes")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return "", apperrors.Wrap(err, "creating settings directory")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return "", apperrors.Wrap(err, "writing themes file")
	}
	return theme, nil
}

func (s *ThemeStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, apperrors.Wrap(err, "reading themes file")
	}

	themes := map[string]string{}
	if err := json.Unmarshal(data, &themes); err != nil {
		// A corrupt preferences file should not take settings down.
		return map[string]string{}, nil
	}
	return themes, nil
}
