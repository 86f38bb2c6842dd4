package confluence

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// basicAuthTransport adds HTTP basic credentials to every request.
type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(r)
}

// newHTTPClient returns an authenticated client for cfg. A token selects
// bearer authentication; otherwise username and API key are sent as basic
// credentials.
func newHTTPClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		hc := oauth2.NewClient(context.Background(), ts)
		hc.Timeout = timeout
		return hc
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &basicAuthTransport{
			username: cfg.Username,
			password: cfg.APIKey,
			base:     http.DefaultTransport,
		},
	}
}
