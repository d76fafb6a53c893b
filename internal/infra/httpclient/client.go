package httpclient

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/alignedworks/cvx/internal/domain"
)

type Config struct {
	// Timeout bounds a whole round trip including the body read. A context
	// deadline can still cut it shorter.
	Timeout time.Duration

	DialTimeout     time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	// UserAgent is set on requests that do not carry one.
	UserAgent string
}

func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		DialTimeout:     5 * time.Second,
		TLSHandshake:    5 * time.Second,
		ResponseHeader:  15 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		UserAgent:       "cvx",
	}
}

// ConfigFor applies the workspace api settings to DefaultConfig. The response
// header wait never exceeds the overall timeout.
func ConfigFor(api domain.APIConfig, userAgent string) Config {
	cfg := DefaultConfig()
	if api.Timeout > 0 {
		cfg.Timeout = api.Timeout
		cfg.ResponseHeader = min(cfg.ResponseHeader, api.Timeout)
	}
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}
	return cfg
}

// New builds a client with a cookie jar, since the platform authenticates
// with an auth cookie. A CLI talks to one host, so few idle conns are kept.
func New(cfg Config) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}

	var tr http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}
	if cfg.UserAgent != "" {
		tr = userAgentTransport{next: tr, ua: cfg.UserAgent}
	}

	// cookiejar.New only fails on a bad PublicSuffixList, and none is passed.
	jar, _ := cookiejar.New(nil)

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
		Jar:       jar,
	}
}

type userAgentTransport struct {
	next http.RoundTripper
	ua   string
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.ua)
	return t.next.RoundTrip(r)
}
