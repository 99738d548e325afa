package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "HIREDECK"

var _ Config = (*viperConfig)(nil)

type viperConfig struct {
	v *viper.Viper
}

// New loads configuration from ~/.hiredeck/config.yaml (optional) with
// HIREDECK_* environment overrides, e.g. HIREDECK_API_BASE_URL.
func New() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.AddConfigPath(filepath.Join(home, ".hiredeck"))
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_name", "HireDeck")
	v.SetDefault("env", "DEV")
	v.SetDefault("api.base_url", "http://localhost:8000/api/v1")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("keystore.path", filepath.Join(home, ".hiredeck", "keystore.bin"))
	v.SetDefault("keystore.passphrase", "hiredeck-dev")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "[config.New] read config")
		}
	}

	cfg := &viperConfig{v: v}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *viperConfig) validate() error {
	settings := struct {
		BaseURL      string `validate:"required,url"`
		KeystorePath string `validate:"required"`
	}{
		BaseURL:      c.GetBaseURL(),
		KeystorePath: c.GetKeystorePath(),
	}
	if err := validator.New().Struct(settings); err != nil {
		return errors.Wrap(err, "[config.New] invalid configuration")
	}
	return nil
}

func (c *viperConfig) GetAppName() string {
	return c.v.GetString("app_name")
}

func (c *viperConfig) GetEnv() string {
	return c.v.GetString("env")
}

func (c *viperConfig) GetBaseURL() string {
	return strings.TrimRight(c.v.GetString("api.base_url"), "/")
}

func (c *viperConfig) GetRequestTimeout() time.Duration {
	d := c.v.GetDuration("api.timeout")
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *viperConfig) GetKeystorePath() string {
	return c.v.GetString("keystore.path")
}

func (c *viperConfig) GetKeystorePassphrase() string {
	return c.v.GetString("keystore.passphrase")
}
