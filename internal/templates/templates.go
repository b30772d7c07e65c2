// Package templates stores reusable generation settings as JSON files
// under ~/.leonardo-cli/templates, one file per template name.
package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const templatesDirName = "templates"

var (
	// ErrTemplateNotFound is returned when no template has the given name
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplateName is returned for names that cannot become a
	// file name
	ErrInvalidTemplateName = errors.New("invalid template name")
)

// Template holds the generation settings worth reusing
type Template struct {
	Prompt         string  `json:"prompt"`
	ModelID        string  `json:"model_id,omitempty"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Alchemy        bool    `json:"alchemy"`
	Phoenix        bool    `json:"phoenix"`
	Contrast       float64 `json:"contrast,omitempty"`
	PresetStyle    string  `json:"preset_style,omitempty"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
}

// Store reads and writes templates in a directory
type Store struct {
	dir string
}

// NewStore creates a template store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the per-user template directory
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".leonardo-cli", templatesDirName), nil
}

// Save writes a template, overwriting any previous one with that name
func (s *Store) Save(name string, template *Template) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create templates directory: %w", err)
	}

	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}

	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	return nil
}

// Load reads a template by name
func (s *Store) Load(name string) (*Template, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("read template: %w", err)
	}

	var template Template
	if err := json.Unmarshal(data, &template); err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}

	return &template, nil
}

// List returns all template names, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read templates directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}

	sort.Strings(names)
	return names, nil
}

// Delete removes a template by name
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return fmt.Errorf("delete template: %w", err)
	}

	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// validateName keeps template names usable as plain file names
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTemplateName)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}
	return nil
}
