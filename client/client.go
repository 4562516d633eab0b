// Package client is a typed Go client for the Tutoria REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/core"
)

const defaultUserAgent = "tutoria-client"

type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken authenticates every request with the given JWT.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client of the API served at baseURL (e.g. http://localhost:8001).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

// APIError is a non-2xx response. Fields is set for validation errors.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string]string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("%d: %s", err.StatusCode, err.Detail)
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.IsObject():
		apiErr.Fields = make(map[string]string)
		detail.ForEach(func(key, value gjson.Result) bool {
			apiErr.Fields[key.String()] = value.String()
			return true
		})
		msgs := make([]string, 0, len(apiErr.Fields))
		for fld, msg := range apiErr.Fields {
			msgs = append(msgs, fld+": "+msg)
		}
		sort.Strings(msgs)
		apiErr.Detail = strings.Join(msgs, "; ")
	case detail.Exists():
		apiErr.Detail = detail.String()
	default:
		apiErr.Detail = http.StatusText(status)
	}
	return apiErr
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends the request and decodes the JSON response into out (when not nil).
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, out), "decoding response")
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

// deleteMessage sends a DELETE and returns the server's confirmation message.
func (c *Client) deleteMessage(ctx context.Context, path string) (string, error) {
	var res MessageResponse
	err := c.send(ctx, http.MethodDelete, path, nil, &res)
	return res.Message, err
}

func pageQuery(page core.Page) string {
	q := url.Values{}
	if page.Skip > 0 {
		q.Set("skip", strconv.Itoa(page.Skip))
	}
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type (
	MessageResponse struct {
		Message string `json:"message"`
	}

	SuccessResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

// Home returns the greeting served at the root of the API host.
func (c *Client) Home(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", err
	}
	var res MessageResponse
	err = c.do(req, &res)
	return res.Message, err
}
