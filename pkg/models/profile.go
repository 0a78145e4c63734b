package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a saved column mapping for one bank's statement layout.
// Category may be empty, in which case imported rows get DefaultCategory.
type Profile struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	Category    string `yaml:"category,omitempty"`
}

// Profiles is the structure of the YAML profiles file.
type Profiles struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads a profiles file from a YAML file, expanding ~.
func LoadProfiles(path string) (*Profiles, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file %s: %w", path, err)
	}

	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file %s: %w", path, err)
	}

	return &profiles, nil
}

// Get returns the named profile.
func (p *Profiles) Get(name string) (Profile, error) {
	profile, ok := p.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	if profile.Date == "" || profile.Description == "" || profile.Amount == "" {
		return Profile{}, fmt.Errorf("profile %q must map date, description and amount columns", name)
	}
	return profile, nil
}
