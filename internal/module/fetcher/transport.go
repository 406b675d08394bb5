package fetcher

import (
	"log"
	"net/http"
)

// retryTransport retries a request whose round trip failed at the transport
// level. Responses are returned as they are, whatever their status.
type retryTransport struct {
	base    http.RoundTripper
	retries int
}

func newRetryTransport(base http.RoundTripper, retries int) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if retries < 0 {
		retries = 0
	}
	return &retryTransport{base: base, retries: retries}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		res, err := t.base.RoundTrip(req)
		if err == nil || attempt >= t.retries || req.Context().Err() != nil {
			return res, err
		}

		if req.Body != nil && req.Body != http.NoBody {
			if req.GetBody == nil {
				return res, err
			}
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return res, err
			}
			req.Body = body
		}
		log.Printf("[Fetcher] Retry %d/%d for %s: %v", attempt+1, t.retries, req.URL, err)
	}
}
