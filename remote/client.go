// Package remote implements the HTTP auth client and the classification of
// raw HTTP outcomes into the tagged response the resolution engine consumes.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-resource/core"
)

const defaultClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 1 << 20 // 1 MiB

const (
	loginPath    = "account/login"
	registerPath = "account/register"
)

// AuthResponse is the body shape shared by login and registration calls. An
// HTTP 200 can still carry a business error: Response holds the marker and
// ErrorMessage the user-facing text.
type AuthResponse struct {
	Response     string  `json:"response"`
	ErrorMessage string  `json:"error_message"`
	PK           int     `json:"pk"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	Token        *string `json:"token"`
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL              string
	client               HTTPDoer
	defaultHeaders       map[string]string
	maxResponseBodyBytes int64
}

type Option func(*Client)

func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

func WithMaxResponseBodyBytes(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxResponseBodyBytes = limit
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("remote: base url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("remote: invalid base url: %w", err)
	}
	c := &Client{
		baseURL:              strings.TrimRight(trimmed, "/"),
		client:               &http.Client{Timeout: defaultClientTimeout},
		defaultHeaders:       map[string]string{},
		maxResponseBodyBytes: defaultResponseBodyLimit,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: defaultClientTimeout}
	}
	return c, nil
}

// Login issues the credentials check. Transport failures become Error
// responses carrying the raw failure message; the engine decides how they
// surface.
func (c *Client) Login(ctx context.Context, email, password string) core.ApiResponse[AuthResponse] {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	return c.post(ctx, loginPath, form)
}

func (c *Client) Register(ctx context.Context, email, username, password, confirmPassword string) core.ApiResponse[AuthResponse] {
	form := url.Values{}
	form.Set("email", email)
	form.Set("username", username)
	form.Set("password", password)
	form.Set("password2", confirmPassword)
	return c.post(ctx, registerPath, form)
}

func (c *Client) post(ctx context.Context, path string, form url.Values) core.ApiResponse[AuthResponse] {
	if c == nil || c.client == nil {
		return core.ErrorResponse[AuthResponse]("remote: client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.baseURL + "/" + path
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return core.ErrorResponse[AuthResponse](err.Error())
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, value := range c.defaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		request.Header.Set(key, value)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return core.ErrorResponse[AuthResponse](err.Error())
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(response.Body, c.maxResponseBodyBytes))
	if err != nil {
		return core.ErrorResponse[AuthResponse](err.Error())
	}

	return Classify(response.StatusCode, body)
}

// Classify maps an HTTP status and body into the closed tagged response. A
// 204 (or an empty 200 body) is Empty; non-2xx statuses are transport-level
// errors; everything else decodes as a success body, which may itself carry
// a business error for the success handler to inspect.
func Classify(statusCode int, body []byte) core.ApiResponse[AuthResponse] {
	if statusCode == http.StatusNoContent {
		return core.EmptyResponse[AuthResponse]()
	}
	if statusCode < 200 || statusCode > 299 {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(statusCode)
		}
		if decoded, ok := decodeAuthResponse(body); ok && strings.TrimSpace(decoded.ErrorMessage) != "" {
			message = decoded.ErrorMessage
		}
		return core.ErrorResponse[AuthResponse](message)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return core.EmptyResponse[AuthResponse]()
	}
	decoded, ok := decodeAuthResponse(body)
	if !ok {
		return core.ErrorResponse[AuthResponse](fmt.Sprintf("remote: malformed response body (%d bytes)", len(body)))
	}
	return core.SuccessResponse(decoded)
}

func decodeAuthResponse(body []byte) (AuthResponse, bool) {
	var decoded AuthResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return AuthResponse{}, false
	}
	return decoded, true
}
