package puppetdb

import (
	"errors"

	"github.com/tansive/pdbquery/internal/common/apperrors"
)

// Exit codes carried by the error kinds, used by command-line front ends.
const (
	ExitConnectorError  = 2
	ExitQueryError      = 3
	ExitProcessingError = 4
)

var (
	// ErrPuppetDB is the root of all errors returned by this package.
	ErrPuppetDB = apperrors.New("puppetdb error")

	// ErrConnector reports an invalid connector configuration. It is permanent
	// for the lifetime of the connector.
	ErrConnector           apperrors.Error = ErrPuppetDB.New("invalid connector").SetExitCode(ExitConnectorError)
	ErrNoHostname          apperrors.Error = ErrConnector.New("no hostname specified")
	ErrNoTLSSupport        apperrors.Error = ErrConnector.New("transport is not TLS enabled")
	ErrMissingCertificates apperrors.Error = ErrConnector.New("not all certificates were specified")
	ErrInvalidCertificate  apperrors.Error = ErrConnector.New("invalid certificate file")

	// ErrQuery reports an invalid query.
	ErrQuery      apperrors.Error = ErrPuppetDB.New("invalid query").SetExitCode(ExitQueryError)
	ErrNoEndpoint apperrors.Error = ErrQuery.New("no endpoint specified")

	// ErrEncoding reports a query string that could not be percent-encoded.
	// It is raised before any network I/O.
	ErrEncoding apperrors.Error = ErrPuppetDB.New("failed to encode the query URL").SetExitCode(ExitProcessingError)

	// ErrProcessing reports a failure during the network round trip. The
	// message is the transport diagnostic.
	ErrProcessing apperrors.Error = ErrPuppetDB.New("failed to perform the query").SetExitCode(ExitProcessingError)
)

// Kind classifies an error returned by this package.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnector
	KindQuery
	KindEncoding
	KindProcessing
)

func (k Kind) String() string {
	switch k {
	case KindConnector:
		return "connector"
	case KindQuery:
		return "query"
	case KindEncoding:
		return "encoding"
	case KindProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err, or KindUnknown for nil and foreign errors.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConnector):
		return KindConnector
	case errors.Is(err, ErrQuery):
		return KindQuery
	case errors.Is(err, ErrEncoding):
		return KindEncoding
	case errors.Is(err, ErrProcessing):
		return KindProcessing
	default:
		return KindUnknown
	}
}
