package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"dbkit/core/database"
	"dbkit/core/logger"
	"dbkit/core/reconcile"
	"dbkit/core/server"
	"dbkit/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the base name of the optional configuration file.
const FileName = "config"

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for report exports.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Reconcile holds defaults for table reconciliation.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
}

// LoadConfig loads configuration from defaults, an optional config.yaml in
// path, a .env file and environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	envPath := filepath.Join(path, ".env")

	// A missing .env is fine (e.g. production).
	_ = godotenv.Overload(envPath)

	v := newViper()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// newViper returns a viper instance with every default registered and
// environment variables mapped to nested keys (SERVER_PORT -> server.port).
func newViper() *viper.Viper {
	v := viper.New()
	bindValues(v, Config{}, "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Publish writes the default configuration to path so it can be edited.
// An existing file is only replaced when force is set.
func Publish(path string, force bool) error {
	if path == "" {
		path = FileName + ".yaml"
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists", path)
	}

	v := viper.New()
	bindValues(v, Config{}, "")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// GetValue returns the setting at a dotted key such as "server.port", or a
// whole section for "server". Keys are case-insensitive; unknown keys yield nil.
func (c *Config) GetValue(key string) any {
	if c == nil || key == "" {
		return nil
	}
	val := reflect.ValueOf(*c)
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		if val.Kind() != reflect.Struct {
			return nil
		}
		next, ok := fieldByTag(val, part)
		if !ok {
			return nil
		}
		val = next
	}
	return val.Interface()
}

func fieldByTag(val reflect.Value, tag string) (reflect.Value, bool) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("mapstructure") == tag {
			return val.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set the default (even if empty) to register the key for AutomaticEnv.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
