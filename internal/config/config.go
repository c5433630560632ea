package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/outletkit/outletkit/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Storage    StorageConfig    `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Geocode    GeocodeConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

// StorageConfig locates the embedded database files. Each entity store owns
// one logical database with its own schema version so the two can evolve
// independently.
type StorageConfig struct {
	Dir string `validate:"required"`

	OrganizationsDBName        string `mapstructure:"organizations_db_name"`
	OrganizationsSchemaVersion int    `mapstructure:"organizations_schema_version"`
	RecordsDBName              string `mapstructure:"records_db_name"`
	RecordsSchemaVersion       int    `mapstructure:"records_schema_version"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type GeocodeConfig struct {
	Endpoint   string
	CacheTTL   string `mapstructure:"cache_ttl"`
	MaxRetries int    `mapstructure:"max_retries"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("OUTLETKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("storage.dir", ".outletkit")
	v.SetDefault("storage.organizations_db_name", "outletkit-organizations")
	v.SetDefault("storage.organizations_schema_version", 1)
	v.SetDefault("storage.records_db_name", "outletkit-data")
	v.SetDefault("storage.records_schema_version", 1)
	v.SetDefault("geocode.endpoint", "https://nominatim.openstreetmap.org/reverse")
	v.SetDefault("geocode.cache_ttl", "15m")
	v.SetDefault("geocode.max_retries", 2)
}

func (c Configuration) Validate() error {
	return validator.New().Struct(c)
}

// GetDefaultConfig returns a configuration suitable for tests and tooling
// that should not touch the user's config file.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Storage: StorageConfig{
			Dir:                        ".outletkit",
			OrganizationsDBName:        "outletkit-organizations",
			OrganizationsSchemaVersion: 1,
			RecordsDBName:              "outletkit-data",
			RecordsSchemaVersion:       1,
		},
		Logging: LoggingConfig{Level: types.LogLevelInfo},
		Geocode: GeocodeConfig{
			Endpoint:   "https://nominatim.openstreetmap.org/reverse",
			CacheTTL:   "15m",
			MaxRetries: 2,
		},
	}
}
