package httpclient

import (
	"context"
)

// StaticResponse is a canned result returned by StaticExecutor.
type StaticResponse struct {
	Body []byte
	Err  error
}

// StaticExecutor is a deterministic Executor that never touches the network.
// Responses are looked up by exact URL; Default is used for any other URL.
type StaticExecutor struct {
	Responses      map[string]StaticResponse
	Default        StaticResponse
	TLSUnsupported bool

	calls []StaticCall
}

// StaticCall records one Execute invocation.
type StaticCall struct {
	URL string
	TLS *TLSFiles
}

// NewStaticExecutor returns an executor answering every URL with body.
func NewStaticExecutor(body string) *StaticExecutor {
	return &StaticExecutor{Default: StaticResponse{Body: []byte(body)}}
}

func (s *StaticExecutor) Execute(ctx context.Context, url string, tls *TLSFiles) ([]byte, error) {
	s.calls = append(s.calls, StaticCall{URL: url, TLS: tls})
	r, ok := s.Responses[url]
	if !ok {
		r = s.Default
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]byte(nil), r.Body...), nil
}

func (s *StaticExecutor) SupportsTLS() bool {
	return !s.TLSUnsupported
}

// Calls returns the invocations seen so far, oldest first.
func (s *StaticExecutor) Calls() []StaticCall {
	return s.calls
}
