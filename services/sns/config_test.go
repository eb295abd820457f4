package sns

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/influxdata/snsalert/alert"
	"github.com/influxdata/snsalert/services/sns/client"
)

func validSource() map[string]interface{} {
	return map[string]interface{}{
		ConfigAccessKey: "AKIAEXAMPLE",
		ConfigSecretKey: "s3cr3t",
		ConfigRegion:    "eu-west-1",
		ConfigFrom:      "Graylog",
		ConfigTo:        "alerts-prod",
		ConfigProxyHost: "",
		ConfigProxyPort: 3128,
	}
}

func TestCheckConfiguration(t *testing.T) {
	if err := CheckConfiguration(alert.NewConfiguration(validSource())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range mandatoryKeys {
		for name, mutate := range map[string]func(map[string]interface{}){
			"empty":      func(m map[string]interface{}) { m[key] = "" },
			"missing":    func(m map[string]interface{}) { delete(m, key) },
			"wrong type": func(m map[string]interface{}) { m[key] = 42 },
		} {
			key, mutate := key, mutate
			t.Run(key+"/"+name, func(t *testing.T) {
				src := validSource()
				mutate(src)
				err := CheckConfiguration(alert.NewConfiguration(src))
				var cerr *alert.ConfigurationError
				if !errors.As(err, &cerr) {
					t.Fatalf("expected configuration error, got %v", err)
				}
				if cerr.Key != key {
					t.Errorf("unexpected key: got %s exp %s", cerr.Key, key)
				}
				if exp := key + " is mandatory and must not be empty."; err.Error() != exp {
					t.Errorf("unexpected message: got %q exp %q", err.Error(), exp)
				}
			})
		}
	}
}

func TestCheckConfiguration_OptionalKeys(t *testing.T) {
	src := validSource()
	delete(src, ConfigProxyHost)
	delete(src, ConfigProxyPort)
	if err := CheckConfiguration(alert.NewConfiguration(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckConfiguration_FirstMissingKey(t *testing.T) {
	src := validSource()
	src[ConfigTo] = ""
	src[ConfigSecretKey] = ""
	err := CheckConfiguration(alert.NewConfiguration(src))
	var cerr *alert.ConfigurationError
	if !errors.As(err, &cerr) || cerr.Key != ConfigSecretKey {
		t.Fatalf("expected secret_key error, got %v", err)
	}
}

func TestDecodeConfiguration(t *testing.T) {
	testCases := []struct {
		name string
		src  map[string]interface{}
		exp  Config
	}{
		{
			name: "full",
			src: map[string]interface{}{
				ConfigAccessKey: "AKIAEXAMPLE",
				ConfigSecretKey: "s3cr3t",
				ConfigRegion:    "eu-west-1",
				ConfigFrom:      "Graylog",
				ConfigTo:        "+14155550123",
				ConfigProxyHost: "proxy.corp",
				ConfigProxyPort: 8080,
				"unknown":       "ignored",
			},
			exp: Config{
				AccessKey: "AKIAEXAMPLE",
				SecretKey: "s3cr3t",
				Region:    "eu-west-1",
				From:      "Graylog",
				To:        "+14155550123",
				ProxyHost: "proxy.corp",
				ProxyPort: 8080,
			},
		},
		{
			name: "defaults",
			src: map[string]interface{}{
				ConfigTo: "alerts",
			},
			exp: Config{
				Region:    DefaultRegion,
				To:        "alerts",
				ProxyPort: DefaultProxyPort,
			},
		},
		{
			name: "weakly typed port",
			src: map[string]interface{}{
				ConfigProxyHost: "proxy.corp",
				ConfigProxyPort: "8081",
				ConfigEndpoint:  "http://localhost:4566",
			},
			exp: Config{
				Region:    DefaultRegion,
				ProxyHost: "proxy.corp",
				ProxyPort: 8081,
				Endpoint:  "http://localhost:4566",
			},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeConfiguration(alert.NewConfiguration(tc.src))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("unexpected config (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeConfiguration_Invalid(t *testing.T) {
	_, err := DecodeConfiguration(alert.NewConfiguration(map[string]interface{}{
		ConfigProxyPort: "not a port",
	}))
	if err == nil {
		t.Fatal("expected error decoding proxy port")
	}
}

func TestConfig_Validate(t *testing.T) {
	c := NewConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("disabled config should be valid: %v", err)
	}

	c.Enabled = true
	err := c.Validate()
	var cerr *alert.ConfigurationError
	if !errors.As(err, &cerr) || cerr.Key != ConfigAccessKey {
		t.Fatalf("expected access_key error, got %v", err)
	}

	c.AccessKey = "AKIAEXAMPLE"
	c.SecretKey = "s3cr3t"
	c.From = "Graylog"
	c.To = "alerts"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.ProxyHost = "proxy.corp"
	c.ProxyPort = 70000
	if err := c.Validate(); err == nil {
		t.Error("expected proxy port error")
	}
}

func TestConfig_ClientConfig(t *testing.T) {
	c := Config{
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "s3cr3t",
		Region:    "eu-west-1",
		ProxyHost: "proxy.corp",
	}
	exp := client.Config{
		Region:    "eu-west-1",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "s3cr3t",
		ProxyHost: "proxy.corp",
		ProxyPort: DefaultProxyPort,
	}
	if diff := cmp.Diff(exp, c.ClientConfig()); diff != "" {
		t.Errorf("unexpected client config (-want +got):\n%s", diff)
	}
}

func TestConfig_ConfigurationRoundTrip(t *testing.T) {
	c := Config{
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "s3cr3t",
		Region:    "eu-west-1",
		From:      "Graylog",
		To:        "alerts",
		ProxyPort: 9000,
	}
	got, err := DecodeConfiguration(c.Configuration())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}
