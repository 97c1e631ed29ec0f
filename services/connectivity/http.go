package connsvc

import (
	"context"
	"net/http"

	"github.com/trezcool/alama/core/academic"
)

// HTTPProber decides reachability with a single HEAD request against a
// well-known endpoint. The caller bounds the attempt via ctx; any response
// counts as online, only transport failure counts as offline.
type HTTPProber struct {
	client *http.Client
	url    string
}

var _ academic.Prober = (*HTTPProber)(nil)

func NewHTTPProber(probeURL string) *HTTPProber {
	return &HTTPProber{client: http.DefaultClient, url: probeURL}
}

func (p *HTTPProber) IsOnline(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	res, err := p.client.Do(req)
	if err != nil {
		return false
	}
	_ = res.Body.Close()
	return true
}
