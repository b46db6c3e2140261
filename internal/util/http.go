package util

import (
	"net/http"
	"net/url"
	"time"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// NewProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
func NewProxyFunc(cfg model.ProxyConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTP == "" && cfg.HTTPS == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && cfg.HTTPS != "" {
			return url.Parse(cfg.HTTPS)
		}
		if cfg.HTTP != "" {
			return url.Parse(cfg.HTTP)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewHTTPClient builds the proxy-aware client shared by the annotator and
// classifier backends.
func NewHTTPClient(timeout time.Duration, proxy model.ProxyConfig) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: NewProxyFunc(proxy),
		},
	}
}
