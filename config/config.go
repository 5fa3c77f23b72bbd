package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Matchmaking struct {
		TopK        int `yaml:"topK"`
		SkillWindow int `yaml:"skillWindow"`
	} `yaml:"matchmaking"`

	Feedback struct {
		DelayMinutes int `yaml:"delayMinutes"`
	} `yaml:"feedback"`
}

// LoadConfig reads the configuration file and applies environment overrides
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration usable without a config file (tests, demos)
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// The env override wins over the file and also covers runs without one.
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		c.Database.URI = uri
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Matchmaking.TopK == 0 {
		c.Matchmaking.TopK = 4
	}
	if c.Matchmaking.SkillWindow == 0 {
		c.Matchmaking.SkillWindow = 500
	}
	if c.Feedback.DelayMinutes == 0 {
		c.Feedback.DelayMinutes = 45
	}
}

// FeedbackDelay returns the delay between a match and its rating prompt
func (c *Config) FeedbackDelay() time.Duration {
	return time.Duration(c.Feedback.DelayMinutes) * time.Minute
}
