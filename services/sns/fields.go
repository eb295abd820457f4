package sns

import "github.com/influxdata/snsalert/alert"

// Name identifies the callback to the host.
const Name = "AWS SNS Alarm Callback"

// Redacted replaces sensitive values wherever configuration is surfaced.
const Redacted = "****"

// RequestedConfiguration declares the options the host must collect, in
// the order they are presented.
func RequestedConfiguration() alert.ConfigurationRequest {
	var r alert.ConfigurationRequest
	r.AddField(alert.NewTextField(ConfigAccessKey, "AWS Access Key", "", "Amazon access key",
		alert.NotOptional))
	r.AddField(alert.NewTextField(ConfigSecretKey, "AWS Secret Key", "", "Amazon secret key",
		alert.NotOptional, alert.IsPassword))
	r.AddField(alert.NewTextField(ConfigRegion, "AWS Region", DefaultRegion, "AWS region",
		alert.NotOptional))
	r.AddField(alert.NewTextField(ConfigFrom, "Sender", "",
		"Contiguous alphanumeric without whitespace",
		alert.NotOptional))
	r.AddField(alert.NewTextField(ConfigTo, "Recipient Topic or Phone Number", "",
		"Predefined SNS topic or a phone number, if starting with '+'",
		alert.NotOptional))
	r.AddField(alert.NewTextField(ConfigProxyHost, "Proxy Host", "", "Optional proxy server host",
		alert.IsOptional))
	r.AddField(alert.NewNumberField(ConfigProxyPort, "Proxy Port", DefaultProxyPort, "Optional proxy server port",
		alert.IsOptional))
	return r
}

// Redact returns a copy of source with the value of every password field
// replaced by Redacted. Keys are redacted whenever present, even if empty.
func Redact(source map[string]interface{}) map[string]interface{} {
	req := RequestedConfiguration()
	redacted := make(map[string]interface{}, len(source))
	for k, v := range source {
		if f, ok := req.Field(k); ok && alert.HasAttribute(f, alert.IsPassword) {
			redacted[k] = Redacted
			continue
		}
		redacted[k] = v
	}
	return redacted
}
