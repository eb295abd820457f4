package server

import (
	"fmt"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/influxdata/snsalert/services/diagnostic"
	"github.com/influxdata/snsalert/services/sns"
)

// EnvPrefix prefixes every environment variable that overrides a config value,
// e.g. SNSALERT_SNS_TO.
const EnvPrefix = "SNSALERT"

const DefaultBindAddress = ":9094"

// Config represents the configuration format for the snsalert binary.
type Config struct {
	Logging diagnostic.Config `toml:"logging"`
	SNS     sns.Config        `toml:"sns"`
	HTTP    HTTPConfig        `toml:"http"`
}

// HTTPConfig controls the listener exposing /metrics and /ping.
type HTTPConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind-address"`
}

// NewConfig returns an instance of Config with reasonable defaults.
func NewConfig() *Config {
	return &Config{
		Logging: diagnostic.NewConfig(),
		SNS:     sns.NewConfig(),
		HTTP: HTTPConfig{
			BindAddress: DefaultBindAddress,
		},
	}
}

// Validate returns an error if the config is invalid.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.SNS.Validate(); err != nil {
		return err
	}
	if c.HTTP.Enabled {
		if _, _, err := net.SplitHostPort(c.HTTP.BindAddress); err != nil {
			return fmt.Errorf("invalid http bind-address %q: %v", c.HTTP.BindAddress, err)
		}
	}
	return nil
}

func (c *Config) ApplyEnvOverrides() error {
	return c.applyEnvOverrides(EnvPrefix, "", reflect.ValueOf(c))
}

func (c *Config) applyEnvOverrides(prefix string, fieldDesc string, field reflect.Value) error {
	// If we have a pointer, dereference it
	s := field
	if field.Kind() == reflect.Ptr {
		s = field.Elem()
	}

	var value string

	if s.Kind() != reflect.Struct {
		value = os.Getenv(prefix)
		// Skip any fields we don't have a value to set
		if value == "" {
			return nil
		}

		if fieldDesc != "" {
			fieldDesc = " to " + fieldDesc
		}
	}

	switch s.Kind() {
	case reflect.String:
		s.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 0, s.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to apply %v%v using type %v and value '%v'", prefix, fieldDesc, s.Type().String(), value)
		}
		s.SetInt(intValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("failed to apply %v%v using type %v and value '%v'", prefix, fieldDesc, s.Type().String(), value)
		}
		s.SetBool(boolValue)
	case reflect.Struct:
		if err := c.applyEnvOverridesToStruct(prefix, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) applyEnvOverridesToStruct(prefix string, s reflect.Value) error {
	typeOfStruct := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if !f.CanSet() {
			continue
		}
		// Get the toml tag to determine what env var name to use
		configName := typeOfStruct.Field(i).Tag.Get("toml")
		if configName == "" || configName == "-" {
			continue
		}
		// Replace hyphens with underscores to avoid issues with shells
		configName = strings.Replace(configName, "-", "_", -1)

		key := strings.ToUpper(fmt.Sprintf("%s_%s", prefix, configName))
		if err := c.applyEnvOverrides(key, typeOfStruct.Field(i).Name, f); err != nil {
			return err
		}
	}
	return nil
}
