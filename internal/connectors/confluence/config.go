package confluence

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the default proactive throttle rate.
	DefaultRequestsPerSecond = 5.0
)

// Config holds the connection settings for one Confluence site.
type Config struct {
	// BaseURL is the site URL, e.g. https://example.atlassian.net.
	// Atlassian Cloud URLs get the /wiki context path appended.
	BaseURL string

	// Username and APIKey are used for basic authentication.
	Username string
	APIKey   string

	// Token is a personal access token sent as a bearer token.
	// It takes precedence over basic authentication.
	Token string

	// Timeout bounds every HTTP request.
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero or less disables throttling.
	RequestsPerSecond float64
}

// Validate checks that the site and credentials are set.
func (c Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("confluence: base URL is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("confluence: invalid base URL %q", c.BaseURL))
	}
	if c.Token == "" && (c.Username == "" || c.APIKey == "") {
		errs = append(errs, errors.New("confluence: username and API key, or a token, are required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// siteURL returns the REST root for BaseURL without a trailing slash.
func siteURL(base string) string {
	base = strings.TrimRight(base, "/")
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if strings.HasSuffix(u.Hostname(), ".atlassian.net") && !strings.Contains(u.Path, "/wiki") {
		return base + "/wiki"
	}
	return base
}
