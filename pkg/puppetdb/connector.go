package puppetdb

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tansive/pdbquery/internal/common/httpclient"
)

// Executor performs the network round trip of a query. The default is an
// HTTP executor over net/http.
type Executor = httpclient.Executor

// Connector performs queries against one PuppetDB host. It is not safe for
// concurrent use because it records the URL of the last query; use one
// Connector per goroutine.
type Connector struct {
	cfg     ConnectorConfig
	err     error
	exec    Executor
	build   URLBuilder
	logger  zerolog.Logger
	lastURL string
}

// Option configures a Connector.
type Option func(*connectorOptions)

type connectorOptions struct {
	port    int
	version APIVersion
	exec    Executor
	build   URLBuilder
	logger  zerolog.Logger
}

// WithPort overrides the default port (HTTPPort or SecurePort).
func WithPort(port int) Option {
	return func(o *connectorOptions) { o.port = port }
}

// WithAPIVersion selects the API version. Defaults to DefaultAPIVersion.
func WithAPIVersion(v APIVersion) Option {
	return func(o *connectorOptions) { o.version = v }
}

// WithExecutor replaces the transport.
func WithExecutor(e Executor) Option {
	return func(o *connectorOptions) { o.exec = e }
}

// WithURLBuilder replaces BuildQueryURL.
func WithURLBuilder(b URLBuilder) Option {
	return func(o *connectorOptions) { o.build = b }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *connectorOptions) { o.logger = l }
}

// NewConnector returns a plain HTTP connector for host.
//
// The returned Connector is never nil. When the configuration is invalid the
// error is also returned, and the Connector refuses every query with it.
func NewConnector(host string, opts ...Option) (*Connector, error) {
	return newConnector(ConnectorConfig{Host: host}, opts)
}

// NewTLSConnector returns a connector for host that authenticates with creds.
// Validation stops at the first failure: hostname, transport TLS support, all
// three paths present, each path readable.
func NewTLSConnector(host string, creds TLSCredentials, opts ...Option) (*Connector, error) {
	return newConnector(ConnectorConfig{Host: host, TLS: &creds}, opts)
}

// NewConnectorFromConfig returns a connector for an already assembled
// configuration. Non-zero Port and APIVersion in cfg take precedence over
// options.
func NewConnectorFromConfig(cfg ConnectorConfig, opts ...Option) (*Connector, error) {
	if cfg.TLS != nil {
		creds := *cfg.TLS
		cfg.TLS = &creds
	}
	if cfg.Port != 0 {
		opts = append(opts, WithPort(cfg.Port))
	}
	if cfg.APIVersion != 0 {
		opts = append(opts, WithAPIVersion(cfg.APIVersion))
	}
	return newConnector(cfg, opts)
}

func newConnector(cfg ConnectorConfig, opts []Option) (*Connector, error) {
	o := connectorOptions{
		port:    cfg.Port,
		version: cfg.APIVersion,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.exec == nil {
		o.exec = httpclient.NewHTTPExecutor()
	}
	if o.build == nil {
		o.build = BuildQueryURL
	}
	cfg.Port = o.port
	cfg.APIVersion = o.version.resolve()
	// fail early on versions outside the closed set
	_ = cfg.APIVersion.Token()

	c := &Connector{
		cfg:    cfg,
		exec:   o.exec,
		build:  o.build,
		logger: o.logger.With().Str("component", "puppetdb").Str("host", cfg.Host).Logger(),
	}
	c.err = cfg.Validate(o.exec.SupportsTLS())
	if c.err != nil {
		c.logger.Debug().Err(c.err).Msg("invalid connector")
		return c, c.err
	}
	return c, nil
}

// Config returns the connector configuration with the port resolved.
func (c *Connector) Config() ConnectorConfig {
	cfg := c.cfg
	cfg.Port = cfg.ResolvedPort()
	return cfg
}

// Err returns the configuration error of the connector, or nil.
func (c *Connector) Err() error {
	if c.exec == nil {
		return ErrConnector.Suffix("connector not initialized")
	}
	return c.err
}

// IsValid reports whether the connector can perform queries.
func (c *Connector) IsValid() bool {
	return c.Err() == nil
}

// IsSecure reports whether the connector uses TLS.
func (c *Connector) IsSecure() bool {
	return c.cfg.IsSecure()
}

// QueryURL returns the URL that PerformQuery would issue for q, without
// recording it or touching the network.
func (c *Connector) QueryURL(q Query) (string, error) {
	if err := c.Err(); err != nil {
		return "", err
	}
	if err := q.Validate(); err != nil {
		return "", err
	}
	return c.build(c.cfg, q)
}

// PerformQuery issues q and returns the response body unchanged.
//
// Errors are, in order of detection: the connector's configuration error,
// ErrQuery for an invalid query, ErrEncoding when the URL cannot be built and
// ErrProcessing when the round trip fails. PerformedQueryURL is updated only
// once a URL has been built.
func (c *Connector) PerformQuery(ctx context.Context, q Query) ([]byte, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := c.build(c.cfg, q)
	if err != nil {
		if KindOf(err) != KindEncoding {
			err = ErrEncoding.Err(err)
		}
		return nil, err
	}
	c.lastURL = u

	c.logger.Debug().Str("url", u).Msg("performing query")
	body, err := c.exec.Execute(ctx, u, c.cfg.TLS)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", u).Msg("query failed")
		return nil, ErrProcessing.MsgErr(err.Error(), err)
	}
	return body, nil
}

// PerformedQueryURL returns the URL of the most recent query that reached the
// transport, or "" before the first one.
func (c *Connector) PerformedQueryURL() string {
	return c.lastURL
}
