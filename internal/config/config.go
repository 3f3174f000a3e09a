// Package config provides configuration loading and management for the catalog sync server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/catalog-sync/internal/telemetry"
)

// EnvPrefix is the prefix for environment variables read through viper
const EnvPrefix = "CATALOG_SYNC"

const (
	// SourceTypeAPI is the type for listings fetched from HTTP endpoints
	SourceTypeAPI = "api"

	// SourceTypeFile is the type for listings read from local JSON files
	SourceTypeFile = "file"
)

const (
	// StorageTypeMemory keeps records and sync state in process memory
	StorageTypeMemory = "memory"

	// StorageTypeBolt keeps records and sync state in a bbolt file
	StorageTypeBolt = "bolt"

	// StorageTypeSQLite keeps records in SQLite and sync state in status files
	StorageTypeSQLite = "sqlite"

	// StorageTypeDatabase keeps records and sync state in PostgreSQL
	StorageTypeDatabase = "database"
)

const (
	// DefaultTTL is used when neither the category nor the cache block set a TTL
	DefaultTTL = 24 * time.Hour

	// DefaultItemsPath is the gjson path of the item array in a source payload
	DefaultItemsPath = "results"

	// DefaultDataDir is where file based storage backends keep their data
	DefaultDataDir = "./data"

	// passwordEnvVar is read when no password file is configured
	passwordEnvVar = EnvPrefix + "_DATABASE_PASSWORD"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Cache      *CacheConfig      `yaml:"cache,omitempty"`
	Storage    *StorageConfig    `yaml:"storage,omitempty"`
	Database   *DatabaseConfig   `yaml:"database,omitempty"`
	Categories []CategoryConfig  `yaml:"categories"`
	Telemetry  *telemetry.Config `yaml:"telemetry,omitempty"`
}

// CacheConfig holds settings shared by all categories
type CacheConfig struct {
	// TTL is how long a refresh stays fresh, e.g. "24h"
	TTL string `yaml:"ttl,omitempty"`

	// WarmInterval enables background refreshing of stale categories, e.g. "5m".
	// Empty disables it and categories are only refreshed on demand.
	WarmInterval string `yaml:"warmInterval,omitempty"`
}

// StorageConfig selects the backend for records and sync state
type StorageConfig struct {
	// Type is one of memory, bolt, sqlite or database
	Type string `yaml:"type"`

	// DataDir holds the bolt or sqlite files and the status files
	DataDir string `yaml:"dataDir,omitempty"`
}

// CategoryConfig binds a category to its remote source
type CategoryConfig struct {
	// Name is the category key, e.g. "upcoming"
	Name string `yaml:"name"`

	// TTL overrides cache.ttl for this category
	TTL string `yaml:"ttl,omitempty"`

	// AllowEmpty accepts an empty item list as a valid refresh.
	// An absent item list is always an error.
	AllowEmpty bool `yaml:"allowEmpty,omitempty"`

	Source SourceConfig `yaml:"source"`
}

// SourceConfig defines where a category is refreshed from
type SourceConfig struct {
	Type string      `yaml:"type"`
	API  *APIConfig  `yaml:"api,omitempty"`
	File *FileConfig `yaml:"file,omitempty"`
}

// APIConfig defines an HTTP JSON source
type APIConfig struct {
	// Endpoint is the full URL of the listing, e.g. "https://api.themoviedb.org/3/movie/upcoming"
	Endpoint string `yaml:"endpoint"`

	// ItemsPath is the gjson path of the item array, defaults to "results"
	ItemsPath string `yaml:"itemsPath,omitempty"`

	// Query is added to the endpoint query string
	Query map[string]string `yaml:"query,omitempty"`

	// TokenFile contains a bearer token sent in the Authorization header
	TokenFile string `yaml:"tokenFile,omitempty"`

	// Timeout bounds a single HTTP request, e.g. "10s"
	Timeout string `yaml:"timeout,omitempty"`
}

// FileConfig defines a local JSON source
type FileConfig struct {
	// Path is the path to the JSON file on the local filesystem
	Path string `yaml:"path"`

	// ItemsPath is the gjson path of the item array, defaults to "results"
	ItemsPath string `yaml:"itemsPath,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from CATALOG_SYNC_DATABASE_PASSWORD environment variable
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(passwordEnvVar); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s environment variable", passwordEnvVar,
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses and validates YAML configuration data
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetStorageType returns the storage type, using memory if not specified
func (c *Config) GetStorageType() string {
	if c.Storage == nil || c.Storage.Type == "" {
		return StorageTypeMemory
	}
	return c.Storage.Type
}

// GetDataDir returns the data directory for file based storage
func (c *Config) GetDataDir() string {
	if c.Storage == nil || c.Storage.DataDir == "" {
		return DefaultDataDir
	}
	return c.Storage.DataDir
}

// GetDefaultTTL returns the cache wide TTL
func (c *Config) GetDefaultTTL() time.Duration {
	if c.Cache == nil || c.Cache.TTL == "" {
		return DefaultTTL
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}

// GetWarmInterval returns the background warm interval, or zero when warming is disabled
func (c *Config) GetWarmInterval() time.Duration {
	if c.Cache == nil || c.Cache.WarmInterval == "" {
		return 0
	}
	interval, err := time.ParseDuration(c.Cache.WarmInterval)
	if err != nil || interval <= 0 {
		return 0
	}
	return interval
}

// GetTTL returns the TTL of the category, falling back to the cache wide TTL
func (c *Config) GetTTL(cat *CategoryConfig) time.Duration {
	if cat != nil && cat.TTL != "" {
		if ttl, err := time.ParseDuration(cat.TTL); err == nil && ttl > 0 {
			return ttl
		}
	}
	return c.GetDefaultTTL()
}

// FindCategory returns the configuration of the named category
func (c *Config) FindCategory(name string) (*CategoryConfig, bool) {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// CategoryNames returns the configured category names in config order
func (c *Config) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i := range c.Categories {
		names[i] = c.Categories[i].Name
	}
	return names
}

// GetItemsPath returns the configured items path or the default
func (a *APIConfig) GetItemsPath() string {
	if a.ItemsPath == "" {
		return DefaultItemsPath
	}
	return a.ItemsPath
}

// GetTimeout returns the request timeout, zero meaning the client default
func (a *APIConfig) GetTimeout() time.Duration {
	if a.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GetItemsPath returns the configured items path or the default
func (f *FileConfig) GetItemsPath() string {
	if f.ItemsPath == "" {
		return DefaultItemsPath
	}
	return f.ItemsPath
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Cache != nil && c.Cache.TTL != "" {
		if err := validateTTL(c.Cache.TTL, "cache.ttl"); err != nil {
			return err
		}
	}
	if c.Cache != nil && c.Cache.WarmInterval != "" {
		if err := validateTTL(c.Cache.WarmInterval, "cache.warmInterval"); err != nil {
			return err
		}
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one category must be configured")
	}

	names := make(map[string]bool)
	for i := range c.Categories {
		cat := &c.Categories[i]
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("categories[%d]: name is required", i)
		}
		if names[cat.Name] {
			return fmt.Errorf("categories[%d]: duplicate category name '%s'", i, cat.Name)
		}
		names[cat.Name] = true

		if err := validateCategory(cat, i); err != nil {
			return err
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

func (c *Config) validateStorage() error {
	switch c.GetStorageType() {
	case StorageTypeMemory, StorageTypeBolt, StorageTypeSQLite:
		return nil
	case StorageTypeDatabase:
		return validateDatabaseConfig(c.Database)
	default:
		return fmt.Errorf("storage.type must be one of %s, %s, %s or %s, got '%s'",
			StorageTypeMemory, StorageTypeBolt, StorageTypeSQLite, StorageTypeDatabase, c.GetStorageType())
	}
}

func validateDatabaseConfig(db *DatabaseConfig) error {
	if db == nil {
		return fmt.Errorf("database configuration is required for storage type %s", StorageTypeDatabase)
	}
	if db.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if db.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if db.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if db.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if db.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(db.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime must be a valid duration: %w", err)
		}
	}
	return nil
}

// validateCategory validates a single category configuration
func validateCategory(cat *CategoryConfig, index int) error {
	prefix := fmt.Sprintf("categories[%d] (%s)", index, cat.Name)

	if cat.TTL != "" {
		if err := validateTTL(cat.TTL, prefix+": ttl"); err != nil {
			return err
		}
	}

	if err := validateSourceTypeCount(&cat.Source, prefix); err != nil {
		return err
	}

	switch cat.Source.Type {
	case SourceTypeAPI:
		if cat.Source.API == nil {
			return fmt.Errorf("%s: source.api is required for source type %s", prefix, SourceTypeAPI)
		}
		return validateAPIConfig(cat.Source.API, prefix)
	case SourceTypeFile:
		if cat.Source.File == nil {
			return fmt.Errorf("%s: source.file is required for source type %s", prefix, SourceTypeFile)
		}
		if cat.Source.File.Path == "" {
			return fmt.Errorf("%s: source.file.path is required", prefix)
		}
		return nil
	default:
		return fmt.Errorf("%s: source.type must be %s or %s, got '%s'",
			prefix, SourceTypeAPI, SourceTypeFile, cat.Source.Type)
	}
}

func validateTTL(value, field string) error {
	ttl, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a valid duration (e.g., '30m', '24h'): %w", field, err)
	}
	if ttl <= 0 {
		return fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return nil
}

// validateSourceTypeCount ensures exactly one source block is configured
func validateSourceTypeCount(src *SourceConfig, prefix string) error {
	configCount := 0
	if src.API != nil {
		configCount++
	}
	if src.File != nil {
		configCount++
	}

	if configCount > 1 {
		return fmt.Errorf("%s: only one of source.api or source.file may be specified", prefix)
	}

	return nil
}

func validateAPIConfig(api *APIConfig, prefix string) error {
	if api.Endpoint == "" {
		return fmt.Errorf("%s: source.api.endpoint is required", prefix)
	}

	u, err := url.Parse(api.Endpoint)
	if err != nil {
		return fmt.Errorf("%s: source.api.endpoint is not a valid URL: %w", prefix, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: source.api.endpoint must use http or https", prefix)
	}

	if api.Timeout != "" {
		if _, err := time.ParseDuration(api.Timeout); err != nil {
			return fmt.Errorf("%s: source.api.timeout must be a valid duration: %w", prefix, err)
		}
	}

	return nil
}
