package server_test

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/influxdata/snsalert/server"
)

// Ensure the configuration can be parsed.
func TestConfig_Parse(t *testing.T) {
	c := server.NewConfig()
	if _, err := toml.Decode(`
[logging]
level = "DEBUG"
encoding = "json"

[sns]
enabled = true
access-key = "AKIAEXAMPLE"
secret-key = "s3cr3t"
region = "eu-west-1"
from = "Graylog"
to = "+14155550123"
proxy-host = "proxy.corp"
proxy-port = 8080

[http]
enabled = true
bind-address = "127.0.0.1:9094"
`, c); err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	if c.Logging.Level != "DEBUG" || c.Logging.File != "STDERR" {
		t.Fatalf("unexpected logging config: %+v", c.Logging)
	} else if !c.SNS.Enabled || c.SNS.Region != "eu-west-1" || c.SNS.To != "+14155550123" {
		t.Fatalf("unexpected sns config: %+v", c.SNS)
	} else if c.SNS.ProxyHost != "proxy.corp" || c.SNS.ProxyPort != 8080 {
		t.Fatalf("unexpected proxy: %s:%d", c.SNS.ProxyHost, c.SNS.ProxyPort)
	} else if !c.HTTP.Enabled || c.HTTP.BindAddress != "127.0.0.1:9094" {
		t.Fatalf("unexpected http config: %+v", c.HTTP)
	}
}

func TestConfig_Parse_EnvOverride(t *testing.T) {
	c := server.NewConfig()
	if _, err := toml.Decode(`
[sns]
access-key = "AKIAEXAMPLE"
from = "Graylog"
to = "alerts"
`, c); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SNSALERT_SNS_ENABLED", "true")
	t.Setenv("SNSALERT_SNS_SECRET_KEY", "from-env")
	t.Setenv("SNSALERT_SNS_TO", "+14155550123")
	t.Setenv("SNSALERT_SNS_PROXY_PORT", "8080")
	t.Setenv("SNSALERT_LOGGING_LEVEL", "WARN")

	if err := c.ApplyEnvOverrides(); err != nil {
		t.Fatalf("failed to apply env overrides: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	if !c.SNS.Enabled {
		t.Fatal("expected sns to be enabled")
	} else if c.SNS.SecretKey != "from-env" {
		t.Fatalf("unexpected secret key: %s", c.SNS.SecretKey)
	} else if c.SNS.To != "+14155550123" {
		t.Fatalf("unexpected to: %s", c.SNS.To)
	} else if c.SNS.ProxyPort != 8080 {
		t.Fatalf("unexpected proxy port: %d", c.SNS.ProxyPort)
	} else if c.SNS.From != "Graylog" {
		t.Fatalf("unexpected from: %s", c.SNS.From)
	} else if c.Logging.Level != "WARN" {
		t.Fatalf("unexpected logging level: %s", c.Logging.Level)
	}
}

func TestConfig_Parse_EnvOverride_Invalid(t *testing.T) {
	c := server.NewConfig()
	t.Setenv("SNSALERT_SNS_PROXY_PORT", "not-a-port")
	if err := c.ApplyEnvOverrides(); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfig_Validate(t *testing.T) {
	c := server.NewConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	c.SNS.Enabled = true
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for enabled sns without credentials")
	}

	c = server.NewConfig()
	c.HTTP.Enabled = true
	c.HTTP.BindAddress = "no-port"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for bad bind address")
	}
}
