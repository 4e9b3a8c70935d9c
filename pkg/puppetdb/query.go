package puppetdb

// Query is the variable part of a request: the endpoint (resource collection)
// and an optional query string in the PuppetDB query language. The query string
// is never parsed here; it is percent-encoded only when the URL is built.
type Query struct {
	endpoint    string
	queryString string
}

// NewQuery returns a Query for endpoint with an optional raw query string.
// An empty endpoint is rejected with ErrNoEndpoint.
func NewQuery(endpoint string, queryString ...string) (Query, error) {
	q := Query{endpoint: endpoint}
	if len(queryString) > 0 {
		q.queryString = queryString[0]
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// MustQuery is like NewQuery but panics on an empty endpoint.
func MustQuery(endpoint string, queryString ...string) Query {
	q, err := NewQuery(endpoint, queryString...)
	if err != nil {
		panic(err)
	}
	return q
}

// Validate reports ErrNoEndpoint for a zero-value Query.
func (q Query) Validate() error {
	if q.endpoint == "" {
		return ErrNoEndpoint
	}
	return nil
}

func (q Query) Endpoint() string {
	return q.endpoint
}

func (q Query) QueryString() string {
	return q.queryString
}

// String renders the endpoint, followed by "?query=" and the unencoded query
// string when there is one.
func (q Query) String() string {
	if q.queryString == "" {
		return q.endpoint
	}
	return q.endpoint + "?query=" + q.queryString
}
