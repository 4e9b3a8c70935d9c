package puppetdb

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/pdbquery/internal/common/httpclient"
)

func TestNewConnector(t *testing.T) {
	c, err := NewConnector("spam", WithPort(42), WithAPIVersion(V2))
	require.NoError(t, err)
	assert.False(t, c.IsSecure())
	assert.True(t, c.IsValid())
	assert.NoError(t, c.Err())
	assert.Equal(t, ConnectorConfig{Host: "spam", Port: 42, APIVersion: V2}, c.Config())
	assert.Equal(t, "", c.PerformedQueryURL())

	c, err = NewConnector("spam")
	require.NoError(t, err)
	assert.Equal(t, HTTPPort, c.Config().Port)
	assert.Equal(t, DefaultAPIVersion, c.Config().APIVersion)
}

func TestNewConnectorUnsupportedVersion(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewConnector("spam", WithAPIVersion(APIVersion(42)))
	})
}

func TestNewTLSConnector(t *testing.T) {
	creds := writeCredentials(t)

	c, err := NewTLSConnector("puppetdb", creds, WithExecutor(httpclient.NewStaticExecutor("[]")))
	require.NoError(t, err)
	assert.True(t, c.IsSecure())
	assert.Equal(t, SecurePort, c.Config().Port)

	u, err := c.QueryURL(MustQuery("facts"))
	require.NoError(t, err)
	assert.Equal(t, "https://puppetdb:8081/v4/facts", u)

	noTLS := &httpclient.StaticExecutor{TLSUnsupported: true}
	c, err = NewTLSConnector("puppetdb", creds, WithExecutor(noTLS))
	assert.ErrorIs(t, err, ErrNoTLSSupport)
	require.NotNil(t, c)
	assert.False(t, c.IsValid())

	_, err = NewTLSConnector("puppetdb", TLSCredentials{CACert: creds.CACert})
	assert.ErrorIs(t, err, ErrMissingCertificates)
}

func TestInvalidConnectorRefusesQueries(t *testing.T) {
	exec := httpclient.NewStaticExecutor(`[{"certname":"master"}]`)

	c, err := NewConnector("", WithExecutor(exec))
	require.ErrorIs(t, err, ErrNoHostname)
	require.NotNil(t, c)

	for i := 0; i < 3; i++ {
		body, err := c.PerformQuery(context.Background(), MustQuery("facts"))
		assert.Nil(t, body)
		assert.ErrorIs(t, err, ErrNoHostname)
		assert.Equal(t, KindConnector, KindOf(err))
	}

	// an invalid connector is reported before an invalid query
	_, err = c.PerformQuery(context.Background(), Query{})
	assert.Equal(t, KindConnector, KindOf(err))

	_, err = c.QueryURL(MustQuery("facts"))
	assert.ErrorIs(t, err, ErrNoHostname)

	assert.Empty(t, exec.Calls())
	assert.Equal(t, "", c.PerformedQueryURL())
}

func TestZeroConnector(t *testing.T) {
	var c Connector
	_, err := c.PerformQuery(context.Background(), MustQuery("facts"))
	assert.ErrorIs(t, err, ErrConnector)
	assert.False(t, c.IsValid())
}

func TestPerformQuery(t *testing.T) {
	exec := httpclient.NewStaticExecutor("[]")
	exec.Responses = map[string]httpclient.StaticResponse{
		"http://eggs:8080/v3/nodes": {Body: []byte(`[{"certname":"master"}]`)},
	}

	c, err := NewConnector("eggs", WithAPIVersion(V3), WithExecutor(exec))
	require.NoError(t, err)

	body, err := c.PerformQuery(context.Background(), MustQuery("nodes"))
	require.NoError(t, err)
	assert.Equal(t, `[{"certname":"master"}]`, string(body))
	assert.Equal(t, "http://eggs:8080/v3/nodes", c.PerformedQueryURL())

	body, err = c.PerformQuery(context.Background(), MustQuery("facts", "bar"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "http://eggs:8080/v3/facts?query=bar", c.PerformedQueryURL())

	calls := exec.Calls()
	require.Len(t, calls, 2)
	assert.Nil(t, calls[0].TLS)
}

func TestPerformQueryPassesCredentials(t *testing.T) {
	creds := writeCredentials(t)
	exec := httpclient.NewStaticExecutor("[]")

	c, err := NewTLSConnector("puppetdb", creds, WithExecutor(exec))
	require.NoError(t, err)

	_, err = c.PerformQuery(context.Background(), MustQuery("nodes"))
	require.NoError(t, err)
	require.Len(t, exec.Calls(), 1)
	assert.Equal(t, creds, *exec.Calls()[0].TLS)
	assert.Equal(t, "https://puppetdb:8081/v4/nodes", exec.Calls()[0].URL)
}

func TestPerformQueryErrorsAreIndependent(t *testing.T) {
	exec := httpclient.NewStaticExecutor(`{"ok":true}`)
	exec.Responses = map[string]httpclient.StaticResponse{
		"http://eggs:8080/v4/down": {Err: errors.New("Couldn't connect to server")},
	}

	c, err := NewConnector("eggs", WithExecutor(exec))
	require.NoError(t, err)

	_, err = c.PerformQuery(context.Background(), MustQuery("down"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcessing)
	assert.Equal(t, KindProcessing, KindOf(err))
	assert.Equal(t, "Couldn't connect to server", err.Error())
	assert.Equal(t, "http://eggs:8080/v4/down", c.PerformedQueryURL())

	body, err := c.PerformQuery(context.Background(), MustQuery("facts"))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, "http://eggs:8080/v4/facts", c.PerformedQueryURL())

	// a query error leaves the connector usable and the last URL untouched
	_, err = c.PerformQuery(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrNoEndpoint)
	assert.Equal(t, KindQuery, KindOf(err))
	assert.Equal(t, "http://eggs:8080/v4/facts", c.PerformedQueryURL())

	// an encoding error is raised before the transport is called
	_, err = c.PerformQuery(context.Background(), MustQuery("nodes", "bad\xff"))
	assert.Equal(t, KindEncoding, KindOf(err))
	assert.Len(t, exec.Calls(), 2)
	assert.True(t, c.IsValid())
}

func TestPerformQueryCustomBuilder(t *testing.T) {
	exec := httpclient.NewStaticExecutor("[]")
	builderErr := errors.New("escape failed")

	c, err := NewConnector("eggs", WithExecutor(exec), WithURLBuilder(func(cfg ConnectorConfig, q Query) (string, error) {
		if q.Endpoint() == "broken" {
			return "", builderErr
		}
		return "mock://" + q.String(), nil
	}))
	require.NoError(t, err)

	_, err = c.PerformQuery(context.Background(), MustQuery("nodes", "x"))
	require.NoError(t, err)
	assert.Equal(t, "mock://nodes?query=x", c.PerformedQueryURL())

	_, err = c.PerformQuery(context.Background(), MustQuery("broken"))
	assert.ErrorIs(t, err, ErrEncoding)
	assert.ErrorIs(t, err, builderErr)
	assert.Equal(t, "mock://nodes?query=x", c.PerformedQueryURL())
}

func TestNewConnectorFromConfig(t *testing.T) {
	c, err := NewConnectorFromConfig(ConnectorConfig{Host: "eggs", Port: 9000, APIVersion: V2}, WithPort(1))
	require.NoError(t, err)
	u, err := c.QueryURL(MustQuery("facts"))
	require.NoError(t, err)
	assert.Equal(t, "http://eggs:9000/v2/facts", u)

	c, err = NewConnectorFromConfig(ConnectorConfig{Host: "eggs"}, WithAPIVersion(V3))
	require.NoError(t, err)
	assert.Equal(t, V3, c.Config().APIVersion)
	assert.Equal(t, HTTPPort, c.Config().Port)
}

func TestConnectorLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	c, err := NewConnector("eggs", WithExecutor(httpclient.NewStaticExecutor("[]")), WithLogger(logger))
	require.NoError(t, err)
	_, err = c.PerformQuery(context.Background(), MustQuery("nodes"))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"url":"http://eggs:8080/v4/nodes"`)
	assert.Contains(t, buf.String(), `"host":"eggs"`)
}
