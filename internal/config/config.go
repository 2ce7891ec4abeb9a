// Package config loads CLI settings from flags, environment, .env and the
// YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys.
const (
	KeyAPI         = "api"
	KeyDeviceID    = "device_id"
	KeyOutput      = "output"
	KeyLogLevel    = "log_level"
	KeyTimeout     = "timeout"
	KeyUserAgent   = "user_agent"
	KeySink        = "sink"
	KeySinkPath    = "sink_path"
	KeyNATSURL     = "nats_url"
	KeyNATSSubject = "nats_subject"
	KeyBoltPath    = "bolt_path"
)

// Keys lists every key that can be persisted with SaveValue.
var Keys = []string{
	KeyAPI, KeyDeviceID, KeyOutput, KeyLogLevel, KeyTimeout, KeyUserAgent,
	KeySink, KeySinkPath, KeyNATSURL, KeyNATSSubject, KeyBoltPath,
}

// Config represents the CLI configuration.
type Config struct {
	API         string        `json:"api"          mapstructure:"api"          yaml:"api"`
	DeviceID    string        `json:"device_id"    mapstructure:"device_id"    yaml:"device_id"`
	Output      string        `json:"output"       mapstructure:"output"       yaml:"output"`
	LogLevel    string        `json:"log_level"    mapstructure:"log_level"    yaml:"log_level"`
	Timeout     time.Duration `json:"timeout"      mapstructure:"timeout"      yaml:"timeout"`
	UserAgent   string        `json:"user_agent"   mapstructure:"user_agent"   yaml:"user_agent"`
	Sink        string        `json:"sink"         mapstructure:"sink"         yaml:"sink"`
	SinkPath    string        `json:"sink_path"    mapstructure:"sink_path"    yaml:"sink_path"`
	NATSURL     string        `json:"nats_url"     mapstructure:"nats_url"     yaml:"nats_url"`
	NATSSubject string        `json:"nats_subject" mapstructure:"nats_subject" yaml:"nats_subject"`
	BoltPath    string        `json:"bolt_path"    mapstructure:"bolt_path"    yaml:"bolt_path"`
}

// SetDefaults registers default values. interactive selects table output,
// otherwise JSON is the default so piped output stays machine readable.
func SetDefaults(v *viper.Viper, version string, interactive bool) {
	output := constants.FormatJSON
	if interactive {
		output = constants.FormatTable
	}

	v.SetDefault(KeyAPI, constants.DefaultBaseURL)
	v.SetDefault(KeyDeviceID, "")
	v.SetDefault(KeyOutput, output)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTimeout, constants.DefaultHTTPTimeout)
	v.SetDefault(KeyUserAgent, "litnet-dataset/"+version)
	v.SetDefault(KeySink, constants.SinkStdout)
	v.SetDefault(KeySinkPath, "")
	v.SetDefault(KeyNATSURL, constants.DefaultNATSURL)
	v.SetDefault(KeyNATSSubject, constants.DefaultNATSSubject)
	v.SetDefault(KeyBoltPath, constants.DefaultBoltPath)
}

// Setup wires the environment and config file into v. An empty configFile
// means ~/.litnet/config.yml. Missing .env and config files are ignored.
func Setup(v *viper.Viper, configFile string) error {
	err := godotenv.Load(constants.EnvFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", constants.EnvFile, err)
	}

	if configFile == "" {
		configFile, err = DefaultConfigFile()
		if err != nil {
			return err
		}
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	return nil
}

// Load reads the effective configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required values and known names.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API) == "" {
		return constants.ErrNoAPIEndpoint
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s", constants.ErrInvalidTimeout, c.Timeout)
	}

	if !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, c.Output) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownOutput, c.Output)
	}

	if !slices.Contains([]string{constants.SinkStdout, constants.SinkFile, constants.SinkNATS, constants.SinkBolt}, c.Sink) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownSink, c.Sink)
	}

	return nil
}

// Settings returns the configuration as key/value strings, keyed like Keys.
func (c *Config) Settings() map[string]string {
	return map[string]string{
		KeyAPI:         c.API,
		KeyDeviceID:    c.DeviceID,
		KeyOutput:      c.Output,
		KeyLogLevel:    c.LogLevel,
		KeyTimeout:     c.Timeout.String(),
		KeyUserAgent:   c.UserAgent,
		KeySink:        c.Sink,
		KeySinkPath:    c.SinkPath,
		KeyNATSURL:     c.NATSURL,
		KeyNATSSubject: c.NATSSubject,
		KeyBoltPath:    c.BoltPath,
	}
}

// DefaultConfigFile returns ~/.litnet/config.yml.
func DefaultConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName), nil
}

// EnsureDeviceID returns the configured device id. When none is set a new
// UUID is generated and saved to the config file so later runs register as
// the same device.
func EnsureDeviceID(v *viper.Viper, cfg *Config) (string, error) {
	if cfg.DeviceID != "" {
		return cfg.DeviceID, nil
	}

	deviceID := uuid.NewString()

	err := SaveValue(v, KeyDeviceID, deviceID)
	if err != nil {
		return "", fmt.Errorf("saving device id: %w", err)
	}

	cfg.DeviceID = deviceID

	return deviceID, nil
}

// SaveValue writes key to the config file in use, keeping other entries,
// and updates v.
func SaveValue(v *viper.Viper, key string, value any) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	configFile := v.ConfigFileUsed()
	if configFile == "" {
		return constants.ErrNoConfigFile
	}

	values, err := readFile(configFile)
	if err != nil {
		return err
	}

	values[key] = value

	err = writeFile(configFile, values)
	if err != nil {
		return err
	}

	v.Set(key, value)

	return nil
}

func readFile(path string) (map[string]any, error) {
	values := make(map[string]any)

	// #nosec G304 -- path comes from the user's config location
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if values == nil {
		values = make(map[string]any)
	}

	return values, nil
}

func writeFile(path string, values map[string]any) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
