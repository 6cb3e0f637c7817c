package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gfontapi/gfontapi/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	TargetDir                 string  `json:"target_dir"`
	MaxConcurrentDownloads    int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries        int     `json:"download_max_retries"`
	DownloadRetryCooldown     float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent     float64 `json:"download_retry_exponent"`
	DownloadTimeoutSeconds    int     `json:"download_timeout_seconds"`

	// Conversion settings
	SkipConversion        bool   `json:"skip_conversion"`
	KeepSourceFonts       bool   `json:"keep_source_fonts"`
	ConverterPath         string `json:"converter_path"` // empty means auto-discover
	ConvertTimeoutSeconds int    `json:"convert_timeout_seconds"`

	// Stylesheet settings
	StylesheetFileName string `json:"stylesheet_file_name"`

	// API settings
	APIBaseURL string `json:"api_base_url"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		TargetDir:              "fonts",
		MaxConcurrentDownloads: 4,
		DownloadMaxRetries:     3,
		DownloadRetryCooldown:  0.5,
		DownloadRetryExponent:  2.0,
		DownloadTimeoutSeconds: 60,

		SkipConversion:        false,
		KeepSourceFonts:       false,
		ConverterPath:         "",
		ConvertTimeoutSeconds: 120,

		StylesheetFileName: "fonts.css",

		APIBaseURL: "https://www.googleapis.com/webfonts/v1/webfonts",
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned. Fields absent
// from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		TargetDir:          s.TargetDir,
		StylesheetFileName: s.StylesheetFileName,
	}
}
