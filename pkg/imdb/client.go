package imdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	errs "imdbratings/pkg/errors"
	"imdbratings/pkg/logger"
	"imdbratings/pkg/profile"
)

// DefaultUserAgent is sent when Options.UserAgent is empty
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Options configures a Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Cookies   map[string]string
	Logger    logger.Logger

	// Transport overrides the HTTP transport; nil uses http.DefaultTransport
	Transport http.RoundTripper
}

// Client downloads ratings exports. It is safe for concurrent use and is
// not modified after NewClient returns.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a client whose cookie jar is seeded with opts.Cookies
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errs.Config(fmt.Sprintf("invalid base URL %q", opts.BaseURL), err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if len(opts.Cookies) > 0 {
		cookies := make([]*http.Cookie, 0, len(opts.Cookies))
		for name, value := range opts.Cookies {
			cookies = append(cookies, &http.Cookie{Name: name, Value: value})
		}
		jar.SetCookies(base, cookies)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
		headers: map[string]string{
			"User-Agent":      opts.UserAgent,
			"Accept":          "text/csv,text/plain;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
		},
		baseURL: opts.BaseURL,
		logger:  opts.Logger,
	}, nil
}

// ExportURL returns the request target for p
func (c *Client) ExportURL(p profile.Profile) string {
	return GetExportURL(c.baseURL, p.UserID)
}

// Fetch downloads the ratings export of p. Only a 200 response with a
// non-empty body is a success; everything else is a classified error.
func (c *Client) Fetch(ctx context.Context, p profile.Profile) ([]byte, error) {
	exportURL := c.ExportURL(p)
	logger.LogFetch(c.logger, p.Username, exportURL, "Preparing request: GET "+exportURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		logger.LogFetch(c.logger, p.Username, exportURL, "Unspecified error: "+err.Error())
		return nil, errs.New(errs.ErrorTypeUnknown, err.Error(), err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	logger.LogFetch(c.logger, p.Username, exportURL, "Sending HTTP request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogFetch(c.logger, p.Username, exportURL, "Connection error: "+err.Error())
		return nil, errs.Network(err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"username": p.Username,
		"url":      exportURL,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused by the next fetch
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.LogFetch(c.logger, p.Username, exportURL, fmt.Sprintf("Bad HTTP status code: %d", resp.StatusCode))
		return nil, errs.Status(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.LogFetch(c.logger, p.Username, exportURL, "Connection error: "+err.Error())
		return nil, errs.New(errs.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), err)
	}

	if len(data) == 0 {
		logger.LogFetch(c.logger, p.Username, exportURL, "Empty response body")
		return nil, errs.New(errs.ErrorTypeEmpty, "empty response body", nil)
	}

	logger.LogFetch(c.logger, p.Username, exportURL, "OK")
	return data, nil
}
