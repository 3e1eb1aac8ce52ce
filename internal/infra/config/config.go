package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the client.
type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	Classifier ClassifierConfig `yaml:"classifier"`
	FieldScan  FieldScanConfig  `yaml:"fieldScan"`
	Assets     AssetsConfig     `yaml:"assets"`
	OSM        OSMConfig        `yaml:"osm"`
	Session    SessionConfig    `yaml:"session"`
	StateDir   string           `yaml:"stateDir"`
	LogFile    string           `yaml:"logFile"`
}

// BackendConfig points at the cloud inference endpoint.
type BackendConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// ClassifierConfig controls the local image classifier.
type ClassifierConfig struct {
	ModelBaseURL    string            `yaml:"modelBaseUrl"`
	FallbackBaseURL string            `yaml:"fallbackBaseUrl"`
	PredictURL      string            `yaml:"predictUrl"`
	CropCategories  map[string]string `yaml:"cropCategories"`
	Complements     []string          `yaml:"complements"`
	DefaultCategory string            `yaml:"defaultCategory"`
	PositiveCutoff  float64           `yaml:"positiveCutoff"`
	TopPredictions  int               `yaml:"topPredictions"`
	DownloadTimeout time.Duration     `yaml:"downloadTimeout"`
}

// FieldScanConfig bounds the batch classification pipeline.
type FieldScanConfig struct {
	MaxParallel   int   `yaml:"maxParallel"`
	MaxImageBytes int64 `yaml:"maxImageBytes"`
	ResizeWidth   int   `yaml:"resizeWidth"`
	JPEGQuality   int   `yaml:"jpegQuality"`
}

// AssetsConfig holds fallback object-store settings used when the backend
// upload ticket does not carry them.
type AssetsConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// OSMConfig drives the nearby-feature lookup on the map tab.
type OSMConfig struct {
	OverpassURL  string        `yaml:"overpassUrl"`
	RadiusMeters float64       `yaml:"radiusMeters"`
	Timeout      time.Duration `yaml:"timeout"`
}

// SessionConfig tunes the mode controller.
type SessionConfig struct {
	ThoughtStep time.Duration `yaml:"thoughtStep"`
}

// Load reads configuration from a YAML file and environment variables.
// An explicit path wins over CONFIG_PATH, which wins over the default
// configs/config.yaml; the file is optional either way.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BACKEND_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = parsed
		}
	}
	if v := os.Getenv("MODEL_BASE_URL"); v != "" {
		cfg.Classifier.ModelBaseURL = v
	}
	if v := os.Getenv("MODEL_FALLBACK_BASE_URL"); v != "" {
		cfg.Classifier.FallbackBaseURL = v
	}
	if v := os.Getenv("MODEL_PREDICT_URL"); v != "" {
		cfg.Classifier.PredictURL = v
	}
	if v := os.Getenv("FIELDSCAN_MAX_PARALLEL"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FieldScan.MaxParallel = parsed
		}
	}
	if v := os.Getenv("ASSETS_ENDPOINT"); v != "" {
		cfg.Assets.Endpoint = v
	}
	if v := os.Getenv("ASSETS_BUCKET"); v != "" {
		cfg.Assets.Bucket = v
	}
	if v := os.Getenv("ASSETS_ACCESS_KEY"); v != "" {
		cfg.Assets.AccessKey = v
	}
	if v := os.Getenv("ASSETS_SECRET_KEY"); v != "" {
		cfg.Assets.SecretKey = v
	}
	if v := os.Getenv("OVERPASS_URL"); v != "" {
		cfg.OSM.OverpassURL = v
	}
	if v := os.Getenv("STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func defaultConfig() *Config {
	stateDir := defaultStateDir()
	return &Config{
		Backend: BackendConfig{
			BaseURL: "https://us-central1-agro-bot-1212.cloudfunctions.net/farmer-assistant",
			Timeout: 90 * time.Second,
		},
		Classifier: ClassifierConfig{
			ModelBaseURL:    "https://teachablemachine.withgoogle.com/models/EFWRDTd2f/",
			FallbackBaseURL: "https://storage.googleapis.com/tm-model/EFWRDTd2f/",
			PredictURL:      "http://127.0.0.1:8501/v1/models/crop:predict",
			CropCategories: map[string]string{
				"mango_tree": "Mango",
			},
			Complements:     []string{"not_mango_tree"},
			DefaultCategory: "Not Mango",
			PositiveCutoff:  0.5,
			TopPredictions:  3,
			DownloadTimeout: 30 * time.Second,
		},
		FieldScan: FieldScanConfig{
			MaxParallel:   4,
			MaxImageBytes: 5 * 1024 * 1024,
			ResizeWidth:   1280,
			JPEGQuality:   85,
		},
		Assets: AssetsConfig{
			Region: "auto",
		},
		OSM: OSMConfig{
			OverpassURL:  "https://overpass-api.de/api/interpreter",
			RadiusMeters: 500,
			Timeout:      25 * time.Second,
		},
		Session: SessionConfig{
			ThoughtStep: 2 * time.Second,
		},
		StateDir: stateDir,
		LogFile:  filepath.Join(stateDir, "assistant.log"),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".assistant"
	}
	return filepath.Join(home, ".assistant")
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.baseUrl cannot be empty")
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("backend.timeout must be positive")
	}
	if strings.TrimSpace(c.Classifier.ModelBaseURL) == "" {
		return errors.New("classifier.modelBaseUrl cannot be empty")
	}
	if c.Classifier.PositiveCutoff <= 0 || c.Classifier.PositiveCutoff >= 1 {
		return errors.New("classifier.positiveCutoff must be in (0,1)")
	}
	if c.Classifier.TopPredictions <= 0 {
		return errors.New("classifier.topPredictions must be positive")
	}
	if c.FieldScan.MaxParallel <= 0 {
		return errors.New("fieldScan.maxParallel must be positive")
	}
	if c.FieldScan.JPEGQuality <= 0 || c.FieldScan.JPEGQuality > 100 {
		return errors.New("fieldScan.jpegQuality must be in (0,100]")
	}
	if c.OSM.RadiusMeters <= 0 {
		return errors.New("osm.radiusMeters must be positive")
	}
	if c.Session.ThoughtStep <= 0 {
		return errors.New("session.thoughtStep must be positive")
	}
	if strings.TrimSpace(c.StateDir) == "" {
		return errors.New("stateDir cannot be empty")
	}
	return nil
}
