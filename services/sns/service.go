package sns

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go/aws"
	awssns "github.com/aws/aws-sdk-go/service/sns"
	"github.com/influxdata/snsalert/alert"
	"github.com/influxdata/snsalert/keyvalue"
	"github.com/influxdata/snsalert/services/sns/client"
	"github.com/pkg/errors"
)

// DisplayNameAttribute carries the sender ID on every published message.
const DisplayNameAttribute = "DisplayName"

type Diagnostic interface {
	WithContext(ctx ...keyvalue.T) Diagnostic

	CreatingClient(region string, proxy string)
	ResolvedTopic(name, arn string)
	Published(messageID, to string)

	Error(msg string, err error)
}

// ClientFactory builds the SNS API for a client configuration.
type ClientFactory func(c client.Config) (client.API, error)

type Option func(*Service)

// WithClientFactory replaces client.New, e.g. to inject a fake in tests.
func WithClientFactory(f ClientFactory) Option {
	return func(s *Service) { s.newClient = f }
}

type Service struct {
	configValue atomic.Value
	diag        Diagnostic
	newClient   ClientFactory

	// The client is reused until the client configuration changes.
	mu           sync.Mutex
	client       client.API
	clientConfig client.Config
}

func NewService(c Config, d Diagnostic, opts ...Option) *Service {
	s := &Service{
		diag:      d,
		newClient: client.New,
	}
	for _, o := range opts {
		o(s)
	}
	s.configValue.Store(c)
	return s
}

func (s *Service) Open() error {
	return nil
}

func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = nil
	return nil
}

func (s *Service) Update(newConfig []interface{}) error {
	if l := len(newConfig); l != 1 {
		return fmt.Errorf("expected only one new config object, got %d", l)
	}
	if c, ok := newConfig[0].(Config); !ok {
		return fmt.Errorf("expected config object to be of type %T, got %T", c, newConfig[0])
	} else {
		s.configValue.Store(c)
	}
	return nil
}

func (s *Service) config() Config {
	return s.configValue.Load().(Config)
}

type testOptions struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

func (s *Service) TestOptions() interface{} {
	c := s.config()
	return &testOptions{
		To:      c.To,
		From:    c.From,
		Message: "test sns message",
	}
}

func (s *Service) Test(options interface{}) error {
	o, ok := options.(*testOptions)
	if !ok {
		return fmt.Errorf("unexpected options type %T", options)
	}
	return s.Alert(context.Background(), o.To, o.From, o.Message)
}

// Alert publishes description to the recipient to with from as the sender
// display name. Failures from SNS are returned as *alert.DispatchError.
func (s *Service) Alert(ctx context.Context, to, from, description string) error {
	return s.alert(ctx, s.diag, to, from, description)
}

func (s *Service) alert(ctx context.Context, diag Diagnostic, to, from, description string) error {
	c := s.config()
	if !c.Enabled {
		return errors.New("service is not enabled")
	}

	recipient := Classify(to)
	api, err := s.snsClient(c)
	if err != nil {
		observePublish(recipient, err)
		return &alert.DispatchError{Cause: err}
	}

	input, err := s.preparePublish(ctx, api, diag, recipient, from, description)
	if err == nil {
		var out *awssns.PublishOutput
		out, err = api.PublishWithContext(ctx, input)
		if err == nil {
			diag.Published(aws.StringValue(out.MessageId), to)
		}
	}
	observePublish(recipient, err)
	if err != nil {
		return &alert.DispatchError{Cause: err}
	}
	return nil
}

// preparePublish assembles the request. Exactly one of TopicArn and
// PhoneNumber is set; topic names are resolved through CreateTopic, which
// returns the existing ARN when the topic already exists.
func (s *Service) preparePublish(ctx context.Context, api client.API, diag Diagnostic, r Recipient, from, description string) (*awssns.PublishInput, error) {
	input := &awssns.PublishInput{
		Message: aws.String(FormatMessage(description)),
		MessageAttributes: map[string]*awssns.MessageAttributeValue{
			DisplayNameAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(from),
			},
		},
	}

	switch r.Kind {
	case PhoneRecipient:
		input.PhoneNumber = aws.String(r.Value)
	default:
		out, err := api.CreateTopicWithContext(ctx, &awssns.CreateTopicInput{
			Name: aws.String(r.Value),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create topic %q", r.Value)
		}
		arn := aws.StringValue(out.TopicArn)
		diag.ResolvedTopic(r.Value, arn)
		input.TopicArn = aws.String(arn)
	}
	return input, nil
}

func (s *Service) snsClient(c Config) (client.API, error) {
	cc := c.ClientConfig()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil && s.clientConfig == cc {
		return s.client, nil
	}

	proxy := ""
	if u := cc.ProxyURL(); u != nil {
		proxy = u.Host
	}
	s.diag.CreatingClient(cc.Region, proxy)
	api, err := s.newClient(cc)
	if err != nil {
		return nil, err
	}
	s.client = api
	s.clientConfig = cc
	return api, nil
}

type HandlerConfig struct {
	// To overrides the configured recipient.
	To string `mapstructure:"to"`
	// From overrides the configured sender display name.
	From string `mapstructure:"from"`
}

type handler struct {
	s    *Service
	c    HandlerConfig
	diag Diagnostic
}

func (s *Service) Handler(c HandlerConfig, ctx ...keyvalue.T) alert.Handler {
	return &handler{
		s:    s,
		c:    c,
		diag: s.diag.WithContext(ctx...),
	}
}

func (h *handler) Handle(event alert.Event) {
	c := h.s.config()
	to := h.c.To
	if to == "" {
		to = c.To
	}
	from := h.c.From
	if from == "" {
		from = c.From
	}
	diag := h.diag.WithContext(keyvalue.KV("stream", event.Stream.ID))
	if err := h.s.alert(context.Background(), diag, to, from, event.Result.ResultDescription); err != nil {
		diag.Error("failed to send event to SNS", err)
	}
}
