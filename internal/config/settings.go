package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/formkit/internal/validation"
)

// Settings is the optional YAML config file. Flags and environment
// variables take precedence over every field.
type Settings struct {
	Endpoint       string `yaml:"endpoint"`
	Account        string `yaml:"account"`
	Color          string `yaml:"color"`
	Output         string `yaml:"output"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ReportFile     string `yaml:"report_file"`
}

// Timeout returns the request deadline, or 0 for none.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// LoadSettings reads settings from path, or from DefaultSettingsPath when
// path is empty. A missing default file yields zero Settings; a missing
// explicit path is an error.
func LoadSettings(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return s, nil
}

// Validate checks field values that are set.
func (s Settings) Validate() error {
	if s.Endpoint != "" {
		u, err := url.Parse(s.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint must be an http or https URL, got %q", s.Endpoint)
		}
	}
	if s.Account != "" {
		if err := validation.Email(s.Account); err != nil {
			return err
		}
	}
	if s.TimeoutSeconds != 0 {
		if err := validation.PositiveInt("timeout_seconds", s.TimeoutSeconds); err != nil {
			return err
		}
	}
	return nil
}
