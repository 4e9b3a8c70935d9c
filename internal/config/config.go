// Package config loads the pdbquery configuration file. The file is TOML and may
// reference environment variables as {{ .ENV.NAME }}.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tansive/pdbquery/pkg/puppetdb"
)

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "pdbquery.conf"

// formatConstraint accepts files written for any 0.1.x format.
var formatConstraint = func() *semver.Constraints {
	c, err := semver.NewConstraint("~" + ConfigFormatVersion)
	if err != nil {
		panic(err)
	}
	return c
}()

// TLSConfig holds the credential triple. Setting any of the three enables TLS.
type TLSConfig struct {
	CACert     string `toml:"ca_cert" yaml:"ca_cert,omitempty" json:"ca_cert,omitempty"`
	ClientCert string `toml:"cert" yaml:"cert,omitempty" json:"cert,omitempty"`
	ClientKey  string `toml:"key" yaml:"key,omitempty" json:"key,omitempty"`
}

// Enabled reports whether any credential path is set.
func (t TLSConfig) Enabled() bool {
	return t.CACert != "" || t.ClientCert != "" || t.ClientKey != ""
}

// ConfigParam holds all configuration parameters of the client
type ConfigParam struct {
	FormatVersion string    `toml:"format_version" yaml:"format_version" json:"format_version" validate:"required,semver"`
	Host          string    `toml:"host" yaml:"host" json:"host"`
	Port          int       `toml:"port" yaml:"port,omitempty" json:"port,omitempty" validate:"min=0,max=65535"`
	APIVersion    string    `toml:"api_version" yaml:"api_version,omitempty" json:"api_version,omitempty" validate:"omitempty,oneof=v2 v3 v4"`
	Timeout       string    `toml:"timeout" yaml:"timeout,omitempty" json:"timeout,omitempty"`
	LogLevel      string    `toml:"log_level" yaml:"log_level,omitempty" json:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	TLS           TLSConfig `toml:"tls" yaml:"tls,omitempty" json:"tls"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns a configuration with no host and default settings.
func Default() *ConfigParam {
	return &ConfigParam{FormatVersion: ConfigFormatVersion}
}

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/pdbquery on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "pdbquery", DefaultConfigFile), nil
}

// LoadConfig reads, preprocesses, parses and validates the config file.
// A .env file in the working directory is honored during preprocessing.
func LoadConfig(filename string) (*ConfigParam, error) {
	if filename == "" {
		return nil, errors.New("config filename is required")
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	cwd, _ := os.Getwd()
	return ParseConfig(content, cwd)
}

// ParseConfig parses config file content, loading .env from envDir.
func ParseConfig(content []byte, envDir string) (*ConfigParam, error) {
	expanded, err := Preprocess(content, envDir)
	if err != nil {
		return nil, errors.Wrap(err, "error preprocessing config file")
	}

	cfg := Default()
	cfg.FormatVersion = ""
	if _, err := toml.Decode(string(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// ValidateConfig checks field constraints and the format version. The host may
// be empty here, since it can still be supplied on the command line.
func ValidateConfig(cfg *ConfigParam) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	v, err := semver.NewVersion(cfg.FormatVersion)
	if err != nil {
		return errors.Wrap(err, "invalid format_version")
	}
	if !formatConstraint.Check(v) {
		return errors.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}
	if _, err := cfg.GetTimeout(); err != nil {
		return err
	}
	return nil
}

// GetTimeout returns the request timeout; zero means no timeout.
func (c *ConfigParam) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrap(err, "invalid timeout")
	}
	if d < 0 {
		return 0, errors.Errorf("invalid timeout: %s is negative", c.Timeout)
	}
	return d, nil
}

// ConnectorConfig converts the file settings into a puppetdb configuration.
// Connection-level validation is left to the connector.
func (c *ConfigParam) ConnectorConfig() (puppetdb.ConnectorConfig, error) {
	version, err := puppetdb.ParseAPIVersion(c.APIVersion)
	if err != nil {
		return puppetdb.ConnectorConfig{}, err
	}
	cc := puppetdb.ConnectorConfig{
		Host:       c.Host,
		Port:       c.Port,
		APIVersion: version,
	}
	if c.TLS.Enabled() {
		cc.TLS = &puppetdb.TLSCredentials{
			CACert:     c.TLS.CACert,
			ClientCert: c.TLS.ClientCert,
			ClientKey:  c.TLS.ClientKey,
		}
	}
	return cc, nil
}
