package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/synclab/postsync/pkg/errors"
)

// APIKeyPrefix is the shape every Postman API key starts with.
const APIKeyPrefix = "PMAK-"

// Defaults for the optional settings.
const (
	DefaultRoutesDir       = "src/routes"
	DefaultCollectionFile  = "postman/api.postman_collection.json"
	DefaultDeprecationDays = 30
	DefaultLogLevel        = "info"
)

// Config is the application configuration. Every field maps to a
// POSTMAN_* environment variable; a YAML config file can supply the same
// keys, with the environment taking precedence.
type Config struct {
	// APIKey authenticates against the Postman REST API.
	APIKey string `mapstructure:"api_key"`

	// CollectionID is the remote collection updated on push.
	CollectionID string `mapstructure:"collection_id"`

	// WorkspaceID scopes collection creation, when set.
	WorkspaceID string `mapstructure:"workspace_id"`

	// RoutesDir is the directory scanned for route files.
	RoutesDir string `mapstructure:"routes_dir"`

	// CollectionFile is the local collection document path.
	CollectionFile string `mapstructure:"collection_file"`

	// DeprecationDays is how long deprecated entries are retained.
	DeprecationDays int `mapstructure:"deprecation_days"`

	// AutoStage stages the collection file after a successful write.
	AutoStage bool `mapstructure:"auto_stage"`

	// AutoPush uploads the merged collection to Postman after a write.
	AutoPush bool `mapstructure:"auto_push"`

	// FailOnError escalates recoverable merge errors to a failed sync.
	FailOnError bool `mapstructure:"fail_on_error"`

	// LogLevel is the zerolog level name.
	LogLevel string `mapstructure:"log_level"`
}

// LoadEnvFiles loads .env and .env.local into the process environment.
// Missing files are ignored; variables already set keep their values.
func LoadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// Load builds the configuration from defaults, an optional YAML config
// file, and POSTMAN_* environment variables, in rising precedence. An
// explicit path must exist; the default search (.postsync.yaml in the
// working directory or home) is best-effort.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POSTMAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("routes_dir", DefaultRoutesDir)
	v.SetDefault("collection_file", DefaultCollectionFile)
	v.SetDefault("deprecation_days", DefaultDeprecationDays)
	v.SetDefault("auto_stage", true)
	v.SetDefault("auto_push", true)
	v.SetDefault("fail_on_error", true)
	v.SetDefault("log_level", DefaultLogLevel)

	// Keys without defaults are invisible to Unmarshal until they are
	// bound explicitly.
	for _, key := range []string{"api_key", "collection_id", "workspace_id"} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.WrapConfig("env", err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapConfig("file", err)
		}
	} else {
		v.SetConfigName(".postsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		_ = v.ReadInConfig()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapConfig("unmarshal", err)
	}
	return cfg, nil
}

// Validate applies the configuration rules. With requireRemote set, the
// API key and collection id must be present; local-only runs skip those
// two checks. All failures are reported, joined into one error.
func (c *Config) Validate(requireRemote bool) error {
	var errs []error

	if requireRemote {
		if c.APIKey == "" {
			errs = append(errs, errors.NewValidationError("api_key", "", "POSTMAN_API_KEY is not set"))
		}
		if c.CollectionID == "" {
			errs = append(errs, errors.NewValidationError("collection_id", "", "POSTMAN_COLLECTION_ID is not set"))
		}
	}
	if c.APIKey != "" && !strings.HasPrefix(c.APIKey, APIKeyPrefix) {
		errs = append(errs, errors.NewValidationError("api_key", redactKey(c.APIKey),
			"must start with "+APIKeyPrefix))
	}

	if c.RoutesDir == "" {
		errs = append(errs, errors.NewValidationError("routes_dir", "", "cannot be empty"))
	} else if info, err := os.Stat(c.RoutesDir); err != nil {
		errs = append(errs, errors.NewValidationError("routes_dir", c.RoutesDir, "directory not found"))
	} else if !info.IsDir() {
		errs = append(errs, errors.NewValidationError("routes_dir", c.RoutesDir, "not a directory"))
	}

	if c.CollectionFile == "" {
		errs = append(errs, errors.NewValidationError("collection_file", "", "cannot be empty"))
	} else if _, err := os.Stat(filepath.Dir(c.CollectionFile)); err != nil {
		errs = append(errs, errors.NewValidationError("collection_file", c.CollectionFile,
			"collection directory not found"))
	}

	if c.DeprecationDays < 1 {
		errs = append(errs, errors.NewValidationError("deprecation_days", c.DeprecationDays,
			"must be at least 1"))
	}

	if c.LogLevel == "" {
		errs = append(errs, errors.NewValidationError("log_level", c.LogLevel, "cannot be empty"))
	} else if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, errors.NewValidationError("log_level", c.LogLevel, "unknown log level"))
	}

	return errors.Join(errs...)
}

// Retention converts the deprecation window into a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.DeprecationDays) * 24 * time.Hour
}

// String renders the configuration with the API key withheld.
func (c *Config) String() string {
	return "Config(collection_id=" + c.CollectionID +
		", routes_dir=" + c.RoutesDir +
		", collection_file=" + c.CollectionFile + ")"
}

// redactKey keeps just enough of a key to recognize it in an error.
func redactKey(key string) string {
	if len(key) > 10 {
		return key[:10] + "..."
	}
	return key
}
