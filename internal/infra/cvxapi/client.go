// Package cvxapi talks to the Collaborative Value Exchange platform API.
package cvxapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/httpclient"
	"github.com/alignedworks/cvx/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrResponseTooLarge reports a 2xx body cut off at the executor's size limit.
var ErrResponseTooLarge = errors.New("response body exceeds the size limit")

type Client struct {
	base *url.URL
	exec *httpclient.Executor
	log  *slog.Logger
}

type Option func(*Client)

// WithExecutor replaces the default executor (tests point it at httptest servers).
func WithExecutor(e *httpclient.Executor) Option {
	return func(c *Client) { c.exec = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCookies seeds the cookie jar with a remembered session.
func WithCookies(cookies []domain.Cookie) Option {
	return func(c *Client) {
		if len(cookies) == 0 {
			return
		}
		hc := make([]*http.Cookie, 0, len(cookies))
		for _, ck := range cookies {
			hc = append(hc, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
		if jar := c.exec.Client().Jar; jar != nil {
			jar.SetCookies(c.base, hc)
		}
	}
}

// New builds a client for baseURL. Options are applied in order, so pass
// WithExecutor before WithCookies.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("base url %q must be absolute", baseURL)
		}
		return nil, &domain.OpError{
			Op:   "cvxapi.new",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	c := &Client{
		base: u,
		exec: httpclient.NewExecutor(),
		log:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ ports.PlatformAPI = (*Client)(nil)

// Cookies returns the auth cookies the jar currently holds for the platform.
func (c *Client) Cookies() []domain.Cookie {
	jar := c.exec.Client().Jar
	if jar == nil {
		return nil
	}
	var out []domain.Cookie
	for _, ck := range jar.Cookies(c.base) {
		out = append(out, domain.Cookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

func (c *Client) endpoint(path string) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	if rel.IsAbs() {
		return "", fmt.Errorf("path %q must be relative to the api base url", path)
	}
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}

// call performs one round trip and returns the raw body of a 2xx response.
func (c *Client) call(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	target, err := c.endpoint(path)
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}

	req, err := httpclient.BuildJSONRequest(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.exec.Do(ctx, req)
	c.log.Debug("api.request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.Status,
		"duration_ms", resp.Duration.Milliseconds(),
		"request_id", req.Header.Get(httpclient.RequestIDHeader),
	)
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
	}

	if resp.Status < 200 || resp.Status > 299 {
		c.log.Warn("api.error", "op", op, "path", path, "status", resp.Status)
		return nil, statusError(op, path, resp)
	}
	if resp.Truncated {
		c.log.Warn("api.truncated", "op", op, "path", path, "limit_bytes", c.exec.MaxBodyBytes())
		return nil, &domain.OpError{
			Op:   op,
			Kind: domain.KindRemote,
			Path: path,
			Err:  fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, c.exec.MaxBodyBytes()),
		}
	}
	return resp.BodyBytes, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	body, err := c.call(ctx, op, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindRemote,
			Path: path,
			Err:  fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func statusError(op, path string, resp httpclient.ResponseData) error {
	remote := &domain.RemoteError{Status: resp.Status, Message: remoteMessage(resp.BodyBytes)}

	kind := domain.KindRemote
	var err error = remote
	switch resp.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.KindUnauthorized
		err = fmt.Errorf("%w: %w", domain.ErrUnauthorized, remote)
	case http.StatusNotFound:
		kind = domain.KindNotFound
		err = fmt.Errorf("%w: %w", domain.ErrNotFound, remote)
	}
	return &domain.OpError{Op: op, Kind: kind, Path: path, Err: err}
}

// remoteMessage pulls a human message out of the error bodies the platform returns:
// {"message": "..."} or an RFC 7807 problem document.
func remoteMessage(body []byte) string {
	var problem struct {
		Message string `json:"message"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err != nil {
		s := strings.TrimSpace(string(body))
		if len(s) > 200 {
			s = s[:200]
		}
		return s
	}
	switch {
	case problem.Message != "":
		return problem.Message
	case problem.Detail != "":
		return problem.Detail
	}
	return problem.Title
}
