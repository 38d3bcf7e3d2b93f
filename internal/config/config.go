// Package config is used to configure the application settings.
package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config - application configuration structure.
type Config struct {
	// Addr: string with the address on which the server will run (e.g., "localhost:8080").
	Addr string `yaml:"server_address"`
	// SFBin: explicit path to the sf executable; skips auto-detection when set.
	SFBin string `yaml:"sf_bin"`
	// CommandTimeout: timeout in seconds for a single SF CLI invocation.
	CommandTimeout int `yaml:"command_timeout"`
	// RequestTimeout: HTTP request processing timeout in seconds.
	RequestTimeout int `yaml:"request_timeout"`
	// Verbose: enables debug-level logging.
	Verbose bool `yaml:"verbose"`
	// ConfigPath: path to configuration file.
	ConfigPath string `yaml:"-"`
}

var cfgDefault = Config{
	Addr:           "localhost:8080",
	SFBin:          "",
	CommandTimeout: 300,
	RequestTimeout: 320,
	Verbose:        false,
	ConfigPath:     "",
}

// NewConfig creates and returns a new instance of the Config structure with predefined values.
func NewConfig() *Config {
	c := cfgDefault
	return &c
}

// ErrReadConfig - error reading yaml config.
var ErrReadConfig = errors.New("reading yaml config")

// ErrParseConfig - error parsing yaml config.
var ErrParseConfig = errors.New("parse yaml config")

// Init initializes the application configuration from environment variables
// and an optional YAML config file. Values from the file override the
// environment; command-line flags are applied afterwards by the caller.
func Init(c *Config) error {
	if val, exist := os.LookupEnv("SFCOV_ADDR"); exist {
		c.Addr = val
	}
	if val, exist := os.LookupEnv("SFCOV_SF_BIN"); exist {
		c.SFBin = val
	}
	if val, exist := os.LookupEnv("SFCOV_COMMAND_TIMEOUT"); exist {
		if sec, err := strconv.Atoi(val); err == nil && sec > 0 {
			c.CommandTimeout = sec
		}
	}
	if val, exist := os.LookupEnv("SFCOV_REQUEST_TIMEOUT"); exist {
		if sec, err := strconv.Atoi(val); err == nil && sec > 0 {
			c.RequestTimeout = sec
		}
	}
	if val, exist := os.LookupEnv("SFCOV_VERBOSE"); exist {
		valBool, err := strconv.ParseBool(val)
		if err == nil {
			c.Verbose = valBool
		}
	}

	if c.ConfigPath != "" {
		file, err := os.ReadFile(c.ConfigPath)
		if err != nil {
			return ErrReadConfig
		}
		if err := yaml.Unmarshal(file, c); err != nil {
			return ErrParseConfig
		}
	}

	return nil
}
