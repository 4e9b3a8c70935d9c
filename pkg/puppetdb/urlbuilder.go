package puppetdb

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// URLBuilder turns a configuration and a query into the request URL.
type URLBuilder func(cfg ConnectorConfig, q Query) (string, error)

// BuildQueryURL is the default URLBuilder. It returns
// scheme://host:port/version/endpoint, followed by ?query= and the
// percent-encoded query string when the query has one.
func BuildQueryURL(cfg ConnectorConfig, q Query) (string, error) {
	var b strings.Builder
	b.WriteString(cfg.Scheme())
	b.WriteString("://")
	b.WriteString(cfg.Authority())
	b.WriteByte('/')
	b.WriteString(cfg.APIVersion.Token())
	b.WriteByte('/')
	b.WriteString(q.Endpoint())

	if qs := q.QueryString(); qs != "" {
		encoded, err := EncodeQueryString(qs)
		if err != nil {
			return "", err
		}
		b.WriteString("?query=")
		b.WriteString(encoded)
	}
	return b.String(), nil
}

// EncodeQueryString percent-encodes s as a URL query component. Spaces become
// %20 and every byte outside the unreserved set is escaped. Strings that are not
// valid UTF-8 are rejected with ErrEncoding, since they would not decode back to
// the same text on the server.
func EncodeQueryString(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", ErrEncoding.Suffix("query string is not valid UTF-8")
	}
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20"), nil
}
