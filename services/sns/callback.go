package sns

import (
	"context"

	"github.com/influxdata/snsalert/alert"
	"github.com/influxdata/snsalert/keyvalue"
	"github.com/pkg/errors"
)

// AlarmCallback exposes the SNS service through the host's alarm callback
// capability set.
type AlarmCallback struct {
	diag Diagnostic
	opts []Option

	configuration alert.Configuration
	service       *Service
}

var _ alert.AlarmCallback = (*AlarmCallback)(nil)

func NewAlarmCallback(d Diagnostic, opts ...Option) *AlarmCallback {
	return &AlarmCallback{
		diag: d,
		opts: opts,
	}
}

func (a *AlarmCallback) Name() string {
	return Name
}

func (a *AlarmCallback) RequestedConfiguration() alert.ConfigurationRequest {
	return RequestedConfiguration()
}

// Initialize stores c. It must be called before any other method that
// reads configuration.
func (a *AlarmCallback) Initialize(c alert.Configuration) error {
	config, err := DecodeConfiguration(c)
	if err != nil {
		return err
	}
	config.Enabled = true
	a.configuration = c
	a.service = NewService(config, a.diag, a.opts...)
	return nil
}

func (a *AlarmCallback) CheckConfiguration() error {
	return CheckConfiguration(a.configuration)
}

func (a *AlarmCallback) Call(stream alert.Stream, result alert.CheckResult) error {
	if a.service == nil {
		return errors.New("alarm callback is not initialized")
	}
	c := a.service.config()
	diag := a.diag.WithContext(
		keyvalue.KV("stream", stream.ID),
		keyvalue.KV("level", result.Level.String()),
	)
	return a.service.alert(context.Background(), diag, c.To, c.From, result.ResultDescription)
}

func (a *AlarmCallback) Attributes() map[string]interface{} {
	return Redact(a.configuration.Source())
}

// Service returns the underlying service, or nil before Initialize.
func (a *AlarmCallback) Service() *Service {
	return a.service
}
