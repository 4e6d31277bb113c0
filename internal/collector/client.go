package collector

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// newHTTPClient builds the client shared by the fetchers, routing through proxyURL when set.
// The cookie jar keeps provider sessions across requests.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		Jar:       jar,
	}
}
