// Package site loads the site configuration file naming the event and
// its upstream manifest locations.
package site

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the site configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site configuration: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse site configuration: %w", err)
	}

	setDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid site configuration %s: %w", path, err)
	}

	return &config, nil
}

func setDefaults(config *Config) {
	if config.Name == "" {
		config.Name = "Agenda Comb"
	}
	if config.CalendarHost == "" {
		config.CalendarHost = hostFromURL(config.CanonicalURL)
	}
	if config.CalendarHost == "" {
		config.CalendarHost = "agenda-comb.local"
	}
	if config.ProdID == "" {
		config.ProdID = fmt.Sprintf("-//%s//Agenda//EN", config.Name)
	}
	if config.Settings.NewsMaxItems == 0 && config.NewsFeedURL != "" {
		config.Settings.NewsMaxItems = 20
	}
}

func validate(config *Config) error {
	if config.ScheduleManifestURL == "" {
		return fmt.Errorf("schedule manifest URL is required")
	}
	if config.ProgramManifestURL == "" {
		return fmt.Errorf("program manifest URL is required")
	}
	for _, raw := range []string{config.ScheduleManifestURL, config.ProgramManifestURL, config.NewsFeedURL, config.CanonicalURL} {
		if raw == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("invalid URL: %s", raw)
		}
	}
	if config.Settings.NewsMaxItems < 0 {
		return fmt.Errorf("news max items must be non-negative")
	}
	return nil
}

func hostFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
