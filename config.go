package moviegraph

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the .moviegraph.yaml configuration file.
type Config struct {
	// Access strategy: raw, helper or fluent.
	Strategy string `yaml:"strategy" validate:"omitempty,oneof=raw helper fluent"`

	Connection ConnectionConfig `yaml:"connection"`
	Log        LogConfig        `yaml:"log"`
	Output     OutputConfig     `yaml:"output,omitempty"`

	// Seed fixture file used by `moviegraph seed` when no path is given.
	Seed string `yaml:"seed,omitempty"`
}

// ConnectionConfig holds Neo4j connection settings.
type ConnectionConfig struct {
	// Connection URI (e.g., "neo4j://localhost:7687")
	URI string `yaml:"uri" validate:"required,uri"`

	// Optional credentials
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Target database, empty for the server default.
	Database string `yaml:"database,omitempty"`

	// Driver pool and retry settings; zero keeps the driver default.
	MaxConnections     int           `yaml:"max_connections,omitempty" validate:"gte=0"`
	AcquisitionTimeout time.Duration `yaml:"acquisition_timeout,omitempty" validate:"gte=0"`
	MaxRetryTime       time.Duration `yaml:"max_retry_time,omitempty" validate:"gte=0"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=console json"`
}

// OutputConfig configures CLI rendering.
type OutputConfig struct {
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=auto table json"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".moviegraph.yaml", ".moviegraph.yml", "moviegraph.yaml", "moviegraph.yml"}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Strategy: "raw",
		Log:      LogConfig{Level: "info", Format: "console"},
		Output:   OutputConfig{Format: "auto"},
	}
}

// LoadConfig finds and loads the nearest .moviegraph.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path. Unset fields keep the
// values of DefaultConfig.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration once all overrides have been applied.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
