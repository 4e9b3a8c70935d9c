package puppetdb

import (
	"os"
	"strconv"

	"github.com/tansive/pdbquery/internal/common/httpclient"
)

// TLSCredentials names the CA certificate, client certificate and client key
// files of a mutually authenticated connection. All three are required.
type TLSCredentials = httpclient.TLSFiles

// ConnectorConfig holds the connection parameters of a Connector.
// A zero Port selects HTTPPort or SecurePort depending on TLS.
type ConnectorConfig struct {
	Host       string
	Port       int
	APIVersion APIVersion
	TLS        *TLSCredentials
}

// IsSecure reports whether the configuration uses TLS.
func (c ConnectorConfig) IsSecure() bool {
	return c.TLS != nil
}

// Scheme returns "https" for TLS configurations and "http" otherwise.
func (c ConnectorConfig) Scheme() string {
	if c.IsSecure() {
		return "https"
	}
	return "http"
}

// ResolvedPort returns Port, or the default port of the transport mode.
func (c ConnectorConfig) ResolvedPort() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.IsSecure() {
		return SecurePort
	}
	return HTTPPort
}

// Authority returns host:port.
func (c ConnectorConfig) Authority() string {
	return c.Host + ":" + strconv.Itoa(c.ResolvedPort())
}

// Validate checks the configuration in order: hostname, TLS support of the
// transport, presence of all three credential paths, existence of each path in
// CA, certificate, key order. The first failure is returned.
func (c ConnectorConfig) Validate(tlsSupported bool) error {
	if c.Host == "" {
		return ErrNoHostname
	}
	if !c.IsSecure() {
		return nil
	}
	if !tlsSupported {
		return ErrNoTLSSupport
	}
	paths := []string{c.TLS.CACert, c.TLS.ClientCert, c.TLS.ClientKey}
	for _, p := range paths {
		if p == "" {
			return ErrMissingCertificates
		}
	}
	for _, p := range paths {
		if !fileReadable(p) {
			return ErrInvalidCertificate.Suffix(p)
		}
	}
	return nil
}

// fileReadable only probes the file; the PEM content is parsed by the
// transport when the connection is made.
func fileReadable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
