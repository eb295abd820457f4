package alert

import "fmt"

// AlarmCallback is the capability set a host drives for each configured
// notification target.
//
// The host calls Initialize once with a validated Configuration, then
// CheckConfiguration, and only then Call for every alert that fires.
// Implementations must tolerate concurrent Call invocations.
type AlarmCallback interface {
	Name() string
	RequestedConfiguration() ConfigurationRequest
	Initialize(c Configuration) error
	CheckConfiguration() error
	Call(stream Stream, result CheckResult) error
	// Attributes returns the configuration with sensitive values redacted.
	Attributes() map[string]interface{}
}

// ConfigurationError reports a mandatory configuration key that is absent
// or empty.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is mandatory and must not be empty.", e.Key)
}

// DispatchError reports a failed delivery attempt. Cause carries the
// underlying transport or service error unchanged.
type DispatchError struct {
	Cause error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch alert: %v", e.Cause)
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}
