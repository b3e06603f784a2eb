package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration struct.  All fields have safe defaults
// so callers can start with Config{} and override only what they need.
type Config struct {
	// Tier thresholds.  Zero = built-in defaults (33 / 29).
	ModernPickerMinVersion   int `yaml:"modern_picker_min_version"`
	PermissionFreeMinVersion int `yaml:"permission_free_min_version"`

	// Permission is the identifier passed to the PermissionRequester on the
	// legacy permissioned tier.
	Permission string `yaml:"permission"`

	// Finalization.
	JPEGQuality int `yaml:"jpeg_quality"` // 1-100; default 80
	// MaxDimension bounds the longest side before re-encoding.  0 = off.
	MaxDimension int `yaml:"max_dimension"`
	// MaxImageBytes caps how much of a source the finalizer reads.  0 = no limit.
	MaxImageBytes int64 `yaml:"max_image_bytes"`

	// Camera capture naming.
	CaptureMIMEType string `yaml:"capture_mime_type"` // default image/jpeg
	CapturePrefix   string `yaml:"capture_prefix"`    // default "IMG"

	// Logging.
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		Permission:      "storage.read",
		JPEGQuality:     80,
		CaptureMIMEType: "image/jpeg",
		CapturePrefix:   "IMG",
		LogLevel:        "info",
	}
}

// Load reads a YAML file and returns the configuration, with unset fields
// filled from Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return errors.New("config: JPEGQuality must be between 1 and 100")
	}
	if c.MaxDimension < 0 {
		return errors.New("config: MaxDimension must not be negative")
	}
	if c.MaxImageBytes < 0 {
		return errors.New("config: MaxImageBytes must not be negative")
	}
	if c.Permission == "" {
		return errors.New("config: Permission is required")
	}
	if c.ModernPickerMinVersion != 0 && c.PermissionFreeMinVersion > c.ModernPickerMinVersion {
		return errors.New("config: PermissionFreeMinVersion must not exceed ModernPickerMinVersion")
	}
	return nil
}
