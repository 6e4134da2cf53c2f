package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything Easel needs to reach the image service and keep
// its local state.
type Config struct {
	APIURL         string
	ImagesPath     string
	PageSize       int
	RequestTimeout time.Duration
	PageRate       float64
	SearchPolicy   string
	StorageBackend string
	StoragePath    string
	LogFile        string
}

// EnvAPIURL overrides api_url when set, directly or through a .env file.
const EnvAPIURL = "EASEL_API_URL"

const (
	defaultConfigPath     = "~/.config/easel/config.toml"
	defaultAPIURL         = "http://127.0.0.1:3000"
	defaultImagesPath     = "/images"
	defaultPageSize       = 10
	defaultRequestTimeout = 10 * time.Second
	defaultSearchPolicy   = "reconciled"
	defaultStorageBackend = "file"
	defaultFileStorage    = "~/.local/share/easel/storage.json"
	defaultBadgerStorage  = "~/.local/share/easel/badger"
	defaultLogFile        = "~/.local/state/easel/easel.log"
)

type rawConfig struct {
	APIURL         string  `toml:"api_url"`
	ImagesPath     string  `toml:"images_path"`
	PageSize       int     `toml:"page_size"`
	RequestTimeout string  `toml:"request_timeout"`
	PageRate       float64 `toml:"page_rate_per_second"`
	SearchPolicy   string  `toml:"search_policy"`
	LogFile        string  `toml:"log_file"`
	Storage        struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
	} `toml:"storage"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		ImagesPath:     defaultImagesPath,
		PageSize:       defaultPageSize,
		RequestTimeout: defaultRequestTimeout,
		SearchPolicy:   defaultSearchPolicy,
		StorageBackend: defaultStorageBackend,
		StoragePath:    mustExpand(defaultFileStorage),
		LogFile:        mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.ImagesPath); v != "" {
		cfg.ImagesPath = v
	}
	if raw.PageSize < 0 {
		return Config{}, fmt.Errorf("page_size must not be negative, got %d", raw.PageSize)
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if raw.PageRate < 0 {
		return Config{}, fmt.Errorf("page_rate_per_second must not be negative")
	}
	cfg.PageRate = raw.PageRate
	if v := strings.TrimSpace(raw.SearchPolicy); v != "" {
		cfg.SearchPolicy = v
	}

	backend := strings.ToLower(strings.TrimSpace(raw.Storage.Backend))
	if backend == "" {
		backend = defaultStorageBackend
	}
	cfg.StorageBackend = backend
	storagePath := strings.TrimSpace(raw.Storage.Path)
	if storagePath == "" {
		storagePath = defaultFileStorage
		if backend == "badger" {
			storagePath = defaultBadgerStorage
		}
	}
	cfg.StoragePath = mustExpand(storagePath)

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	return cfg, nil
}

// ApplyEnv loads envFile (when it exists) and lets EASEL_API_URL override
// the configured API URL. Variables already set in the environment win over
// the file.
func (c *Config) ApplyEnv(envFile string) error {
	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
