package sns

import (
	"net/url"

	"github.com/influxdata/snsalert/alert"
	"github.com/influxdata/snsalert/services/sns/client"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	DefaultRegion    = "ap-southeast-2"
	DefaultProxyPort = 3128
)

// Keys recognized in a host supplied alert.Configuration.
const (
	ConfigAccessKey = "access_key"
	ConfigSecretKey = "secret_key"
	ConfigRegion    = "region"
	ConfigFrom      = "from"
	ConfigTo        = "to"
	ConfigProxyHost = "proxy_host"
	ConfigProxyPort = "proxy_port"
	// ConfigEndpoint is not part of the requested configuration; it is
	// honored when present so tests and VPC endpoints can redirect traffic.
	ConfigEndpoint = "endpoint"
)

var mandatoryKeys = []string{
	ConfigAccessKey,
	ConfigSecretKey,
	ConfigRegion,
	ConfigFrom,
	ConfigTo,
}

// Config is the [sns] configuration as defined in the snsalert configuration file.
type Config struct {
	// Whether the SNS callback is registered by the server.
	Enabled bool `toml:"enabled" mapstructure:"-"`
	// AWS credentials.
	AccessKey string `toml:"access-key" mapstructure:"access_key"`
	SecretKey string `toml:"secret-key" mapstructure:"secret_key"`
	Region    string `toml:"region" mapstructure:"region"`
	// From is the sender display name, contiguous alphanumerics without whitespace.
	From string `toml:"from" mapstructure:"from"`
	// To is a topic name, or a phone number if it starts with '+'.
	To string `toml:"to" mapstructure:"to"`
	// Optional HTTP proxy. ProxyPort is ignored while ProxyHost is empty.
	ProxyHost string `toml:"proxy-host" mapstructure:"proxy_host"`
	ProxyPort int    `toml:"proxy-port" mapstructure:"proxy_port"`
	// Endpoint overrides the SNS API URL.
	Endpoint string `toml:"endpoint" mapstructure:"endpoint"`
}

func NewConfig() Config {
	return Config{
		Region:    DefaultRegion,
		ProxyPort: DefaultProxyPort,
	}
}

// Validate ensures that all configuration options are valid.
// Nothing is checked while the service is disabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := CheckConfiguration(c.Configuration()); err != nil {
		return err
	}
	if c.ProxyHost != "" && (c.ProxyPort < 0 || c.ProxyPort > 65535) {
		return errors.Errorf("invalid proxy port %d", c.ProxyPort)
	}
	if c.Endpoint != "" {
		if _, err := url.Parse(c.Endpoint); err != nil {
			return errors.Wrapf(err, "invalid endpoint %q", c.Endpoint)
		}
	}
	return nil
}

// Configuration returns c in the form a host passes to an alarm callback.
func (c Config) Configuration() alert.Configuration {
	m := map[string]interface{}{
		ConfigAccessKey: c.AccessKey,
		ConfigSecretKey: c.SecretKey,
		ConfigRegion:    c.Region,
		ConfigFrom:      c.From,
		ConfigTo:        c.To,
		ConfigProxyHost: c.ProxyHost,
		ConfigProxyPort: c.ProxyPort,
	}
	if c.Endpoint != "" {
		m[ConfigEndpoint] = c.Endpoint
	}
	return alert.NewConfiguration(m)
}

func (c Config) ClientConfig() client.Config {
	port := c.ProxyPort
	if port <= 0 {
		port = DefaultProxyPort
	}
	return client.Config{
		Region:    c.Region,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		ProxyHost: c.ProxyHost,
		ProxyPort: port,
		Endpoint:  c.Endpoint,
	}
}

// CheckConfiguration fails with an *alert.ConfigurationError naming the
// first mandatory key that is absent or empty.
func CheckConfiguration(cfg alert.Configuration) error {
	for _, key := range mandatoryKeys {
		if !cfg.StringIsSet(key) {
			return &alert.ConfigurationError{Key: key}
		}
	}
	return nil
}

// DecodeConfiguration overlays cfg onto the defaults from NewConfig.
// Keys the callback does not know are ignored.
func DecodeConfiguration(cfg alert.Configuration) (Config, error) {
	c := NewConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &c,
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to initialize mapstructure decoder")
	}
	if err := dec.Decode(cfg.Source()); err != nil {
		return Config{}, errors.Wrapf(err, "failed to decode configuration into %T", c)
	}
	return c, nil
}
