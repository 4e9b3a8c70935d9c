// Package httpclient performs the network round trip for PuppetDB queries. An
// Executor issues exactly one GET per call, optionally over mutually authenticated
// TLS, and returns the full response body. No state is kept between calls.
package httpclient

import (
	"context"
)

// TLSFiles names the credential triple used for a mutually authenticated
// connection. All three are file-system paths to PEM material.
type TLSFiles struct {
	CACert     string // CA certificate used to verify the server
	ClientCert string // client certificate presented to the server
	ClientKey  string // private key of the client certificate
}

// Executor defines the transport used by a connector.
type Executor interface {
	// Execute performs one blocking GET against url and returns the whole body.
	// tls is nil for plain HTTP. A non-2xx status is not an error.
	Execute(ctx context.Context, url string, tls *TLSFiles) ([]byte, error)

	// SupportsTLS reports whether the executor can perform TLS requests at all.
	SupportsTLS() bool
}

var _ Executor = &HTTPExecutor{}
var _ Executor = &StaticExecutor{}
