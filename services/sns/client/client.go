package client

import (
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/pkg/errors"
)

type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	ProxyHost string
	ProxyPort int
	// Endpoint replaces the regional SNS endpoint when set.
	Endpoint string
}

// ProxyURL returns the HTTP proxy to route through, or nil for a direct
// connection.
func (c Config) ProxyURL() *url.URL {
	if c.ProxyHost == "" {
		return nil
	}
	return &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(c.ProxyHost, strconv.Itoa(c.ProxyPort)),
	}
}

// API is the subset of the SNS client used to dispatch alerts.
// *sns.SNS satisfies it.
type API interface {
	CreateTopicWithContext(ctx aws.Context, input *sns.CreateTopicInput, opts ...request.Option) (*sns.CreateTopicOutput, error)
	PublishWithContext(ctx aws.Context, input *sns.PublishInput, opts ...request.Option) (*sns.PublishOutput, error)
}

var _ API = (*sns.SNS)(nil)

// New returns an SNS client bound to c.Region with static credentials.
// Shared config files are not consulted.
func New(c Config) (API, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsConfig(c),
		SharedConfigState: session.SharedConfigDisable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create aws session")
	}
	return sns.New(sess), nil
}

func awsConfig(c Config) *aws.Config {
	cfg := &aws.Config{
		Region:      aws.String(c.Region),
		Credentials: credentials.NewStaticCredentials(c.AccessKey, c.SecretKey, ""),
		HTTPClient:  newHTTPClient(c),
	}
	if c.Endpoint != "" {
		cfg.Endpoint = aws.String(c.Endpoint)
	}
	return cfg
}

func newHTTPClient(c Config) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	// Never fall back to HTTP_PROXY and friends.
	t.Proxy = nil
	if u := c.ProxyURL(); u != nil {
		t.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Transport: t}
}
