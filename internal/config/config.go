package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Topic types
const (
	TypeRSS     = "rss"
	TypeWeather = "weather"
)

// Defaults and bounds for per-topic limits
const (
	DefaultArticleCap = 30
	MinArticleCap     = 1
	MaxArticleCap     = 200

	DefaultSegments = 15
	MinSegments     = 1
	MaxSegments     = 30
)

// Location is a named coordinate pair for weather topics.
type Location struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// Topic is one content-gathering unit. Loaded once per run, immutable after.
type Topic struct {
	Name          string     `yaml:"name"`
	Type          string     `yaml:"type"`
	Sources       []string   `yaml:"sources"`
	Locations     []Location `yaml:"locations"`
	Provider      string     `yaml:"provider"`
	ArticleCap    int        `yaml:"article_cap"`
	Segments      int        `yaml:"segments"`
	LookbackHours int        `yaml:"lookback_hours"`
}

// LoadTopics reads the topic list from a YAML file and applies defaults.
// A missing or unreadable file is a hard configuration error.
func LoadTopics(path string) ([]Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}

	var topics []Topic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("parse topics yaml: %w", err)
	}

	for i := range topics {
		applyDefaults(&topics[i])
		if err := validate(&topics[i]); err != nil {
			return nil, fmt.Errorf("topic %q: %w", topics[i].Name, err)
		}
	}

	return topics, nil
}

func applyDefaults(t *Topic) {
	if t.Type == "" {
		t.Type = TypeRSS
	}
	if t.Provider == "" {
		t.Provider = "open-meteo"
	}
	if t.ArticleCap == 0 {
		t.ArticleCap = DefaultArticleCap
	}
	if t.Segments == 0 {
		t.Segments = DefaultSegments
	}
	t.ArticleCap = clamp(t.ArticleCap, MinArticleCap, MaxArticleCap)
	t.Segments = clamp(t.Segments, MinSegments, MaxSegments)
}

func validate(t *Topic) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch t.Type {
	case TypeRSS, TypeWeather:
	default:
		return fmt.Errorf("unknown type %q", t.Type)
	}
	return nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Credentials holds every optional secret read from the environment.
// Absence of a credential toggles the corresponding dry-run behavior,
// it never aborts a run.
type Credentials struct {
	HuggingFaceKey string
	OpenAIKey      string

	ArchiveAccessKey string
	ArchiveSecret    string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// CredentialsFromEnv reads the credential set from environment variables.
func CredentialsFromEnv() Credentials {
	return Credentials{
		HuggingFaceKey:   os.Getenv("HUGGINGFACE_API_KEY"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		ArchiveAccessKey: os.Getenv("IA_ACCESS_KEY"),
		ArchiveSecret:    os.Getenv("IA_SECRET_KEY"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         os.Getenv("SMTP_PORT"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
	}
}

// HasArchive reports whether archive upload credentials are present.
func (c Credentials) HasArchive() bool {
	return c.ArchiveAccessKey != "" && c.ArchiveSecret != ""
}
