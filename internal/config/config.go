package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
)

// Config represents the application configuration for the matcher commands
type Config struct {
	// SectionBias weights section preferences against OH preferences
	SectionBias float64 `yaml:"sectionBias" validate:"min=0,max=1"`

	MaximizeFilledSlots       bool    `yaml:"maximizeFilledSlots"`
	MaximizeFilledSlotsWeight float64 `yaml:"maximizeFilledSlotsWeight"`

	ConsecutiveBonus       bool    `yaml:"consecutiveBonus"`
	ConsecutiveBonusWeight float64 `yaml:"consecutiveBonusWeight"`

	GlobalConsecutiveBonus       string  `yaml:"globalConsecutiveBonus" validate:"oneof=none section oh all"`
	GlobalConsecutiveBonusWeight float64 `yaml:"globalConsecutiveBonusWeight"`

	SameTimeBonus       bool    `yaml:"sameTimeBonus"`
	SameTimeBonusWeight float64 `yaml:"sameTimeBonusWeight"`

	ConflictToleranceMinutes int `yaml:"conflictToleranceMinutes" validate:"min=0"`

	CrossCategoryConflicts bool `yaml:"crossCategoryConflicts"`

	// Seed fixes the shuffle order for reproducible runs; when nil a seed
	// is drawn at random and logged
	Seed *int64 `yaml:"seed,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a Config with the standard matcher defaults
func Default() *Config {
	return &Config{
		SectionBias:                  0.75,
		MaximizeFilledSlots:          false,
		MaximizeFilledSlotsWeight:    1000,
		ConsecutiveBonus:             true,
		ConsecutiveBonusWeight:       0.75,
		GlobalConsecutiveBonus:       "oh",
		GlobalConsecutiveBonusWeight: 1,
		SameTimeBonus:                true,
		SameTimeBonusWeight:          0.1,
		ConflictToleranceMinutes:     1,
		CrossCategoryConflicts:       true,
	}
}

// Load loads and validates the configuration from course_staff_config.yaml
// It looks for the config file in the current directory first, then in the
// user's home directory; if neither exists the defaults are returned
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Missing keys keep their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// ToMatcherConfig converts the file configuration into the matcher's
// runtime configuration
func (c *Config) ToMatcherConfig() matcher.Config {
	return matcher.Config{
		SectionBias:                  c.SectionBias,
		MaximizeFilledSlots:          c.MaximizeFilledSlots,
		MaximizeFilledSlotsWeight:    c.MaximizeFilledSlotsWeight,
		ConsecutiveBonus:             c.ConsecutiveBonus,
		ConsecutiveBonusWeight:       c.ConsecutiveBonusWeight,
		GlobalConsecutiveBonus:       matcher.GlobalBonusScope(c.GlobalConsecutiveBonus),
		GlobalConsecutiveBonusWeight: c.GlobalConsecutiveBonusWeight,
		SameTimeBonus:                c.SameTimeBonus,
		SameTimeBonusWeight:          c.SameTimeBonusWeight,
		ConflictTolerance:            time.Duration(c.ConflictToleranceMinutes) * time.Minute,
		CrossCategoryConflicts:       c.CrossCategoryConflicts,
	}
}

// findConfigFile searches for course_staff_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "course_staff_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
