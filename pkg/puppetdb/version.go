// Package puppetdb is a synchronous client for the PuppetDB query API.
//
// Create a Connector, plain or TLS-enabled, and call PerformQuery with Query
// values. The API version only changes the path prefix of the request URL; the
// query language is the same across the supported versions, and it is up to the
// caller to use an endpoint that exists in the chosen version.
//
// Request URLs have the form
//
//	{http|https}://{host}:{port}/{version}/{endpoint}[?query=<encoded query>]
//
// The response body is returned as-is.
package puppetdb

import (
	"fmt"
)

// Version is the library version.
const Version = "0.2.0"

// Default ports for plain and TLS connectors.
const (
	HTTPPort   = 8080
	SecurePort = 8081
)

// APIVersion selects the PuppetDB API path prefix. The zero value selects
// DefaultAPIVersion.
type APIVersion int

const (
	V2 APIVersion = iota + 1
	V3
	V4
)

// DefaultAPIVersion is used when no version is given.
const DefaultAPIVersion = V4

var apiVersionTokens = [...]string{
	V2: "v2",
	V3: "v3",
	V4: "v4",
}

func (v APIVersion) resolve() APIVersion {
	if v == 0 {
		return DefaultAPIVersion
	}
	return v
}

func (v APIVersion) supported() bool {
	v = v.resolve()
	return v >= V2 && int(v) < len(apiVersionTokens)
}

// Token returns the path segment of the version. It panics for values outside
// the declared constants.
func (v APIVersion) Token() string {
	if !v.supported() {
		panic(fmt.Sprintf("puppetdb: unsupported api version %d", int(v)))
	}
	return apiVersionTokens[v.resolve()]
}

func (v APIVersion) String() string {
	if !v.supported() {
		return fmt.Sprintf("APIVersion(%d)", int(v))
	}
	return apiVersionTokens[v.resolve()]
}

// APIVersions returns all supported versions, oldest first.
func APIVersions() []APIVersion {
	versions := make([]APIVersion, 0, len(apiVersionTokens))
	for v := V2; int(v) < len(apiVersionTokens); v++ {
		versions = append(versions, v)
	}
	return versions
}

// ParseAPIVersion maps a token such as "v3" to its APIVersion. An empty token
// yields DefaultAPIVersion.
func ParseAPIVersion(token string) (APIVersion, error) {
	if token == "" {
		return DefaultAPIVersion, nil
	}
	for _, v := range APIVersions() {
		if apiVersionTokens[v] == token {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unsupported api version %q", token)
}
