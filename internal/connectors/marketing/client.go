package marketing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.MarketingAPI = (*Client)(nil)

// Client is a marketing API client.
// It is safe for concurrent use; credential changes apply to later requests.
type Client struct {
	mu       sync.RWMutex
	cred     domain.Credential
	host     string
	version  string
	endpoint string

	http        *http.Client
	rateLimiter *RateLimiter
	validator   *validator.Validate
	log         *zap.Logger
}

// NewClient creates a client from cfg, logging API failures to log.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	return &Client{
		cred:     domain.NewCredential(cfg.Token),
		host:     host,
		version:  version,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
		validator:   validator.New(),
		log:         logger.Channel(log, "api"),
	}
}

// SetCredential parses a "key-region" token. An empty token is ignored;
// a token without a region keeps the current region.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred.Set(token)
}

// SetRegion selects the data-center shard explicitly.
func (c *Client) SetRegion(region string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred.Region = region
}

// SetVersion selects the API version path segment.
func (c *Client) SetVersion(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = version
}

// Credential returns the current credential.
func (c *Client) Credential() domain.Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred
}

// URL builds the absolute URL of path with an optional query.
func (c *Client) URL(path string, query url.Values) string {
	c.mu.RLock()
	origin := c.endpoint
	if origin == "" {
		origin = "https://" + c.cred.Region + "." + c.host
	}
	u := origin + "/" + c.version + "/" + strings.TrimLeft(path, "/")
	c.mu.RUnlock()

	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// Request performs one API call and decodes a successful response body into out.
// query is appended to the URL; body, when non-nil, is sent as JSON.
// out may be nil to discard the body.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	cred := c.Credential()
	req.SetBasicAuth(Username, cred.Key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.rateLimiter.Observe(resp)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if err := c.classify(op, resp.StatusCode, raw); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}

// problem is the error document the API returns. Fields are kept raw so a
// malformed entry never hides the presence of an error.
type problem map[string]json.RawMessage

// parseProblem decodes raw as a JSON object, reporting false for anything else.
func parseProblem(raw []byte) (problem, bool) {
	var doc problem
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) || json.Unmarshal(raw, &doc) != nil {
		return nil, false
	}
	return doc, true
}

// has reports whether key is present and not null.
func (p problem) has(key string) bool {
	v, ok := p[key]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// text returns key as a string; non-string values are returned as raw JSON.
func (p problem) text(key string) string {
	return rawText(p[key])
}

// status returns the body's status field, or fallback.
func (p problem) status(fallback int) int {
	var v any
	if json.Unmarshal(p["status"], &v) != nil {
		return fallback
	}
	return statusOf(v, fallback)
}

// messages flattens the errors field. Objects become "field: message",
// strings are used as is and anything else as raw JSON.
func (p problem) messages() string {
	var entries []json.RawMessage
	if err := json.Unmarshal(p["errors"], &entries); err != nil {
		return rawText(p["errors"])
	}
	messages := make([]string, 0, len(entries))
	for _, entry := range entries {
		var fe map[string]json.RawMessage
		if json.Unmarshal(entry, &fe) == nil {
			messages = append(messages, rawText(fe["field"])+": "+rawText(fe["message"]))
			continue
		}
		messages = append(messages, rawText(entry))
	}
	return strings.Join(messages, "; ")
}

func rawText(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	return string(bytes.TrimSpace(v))
}

// classify maps a response to nil or a domain API error.
func (c *Client) classify(op string, status int, raw []byte) error {
	doc, isObject := parseProblem(raw)

	switch {
	case status <= 400:
		if !isObject || status < 200 {
			return nil
		}
		if doc.has("errors") {
			return c.business(op, doc.status(status), doc.messages())
		}
		if s := doc.status(0); s >= 400 {
			return c.business(op, s, doc.text("detail"))
		}
		return nil

	case status <= 500:
		return c.business(op, doc.status(status), doc.text("title")+" :: "+doc.text("detail"))

	default:
		err := &domain.ServerError{Status: doc.status(status), Message: doc.text("detail")}
		c.log.Error("api server error",
			zap.String("op", op),
			zap.Int("status", err.Status),
			zap.String("detail", err.Message),
		)
		return err
	}
}

func (c *Client) business(op string, status int, message string) error {
	c.log.Warn("api error",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("detail", message),
	)
	return &domain.BusinessError{Status: status, Message: message}
}

// statusOf reads the body's status field, which may be a number or a
// numeric string, falling back to the HTTP status.
func statusOf(v any, fallback int) int {
	switch s := v.(type) {
	case float64:
		return int(s)
	case string:
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// swallowBusiness turns a business rejection into a zero result.
// Transport and server failures are returned unchanged.
func swallowBusiness(err error) error {
	if err == nil || domain.IsBusiness(err) {
		return nil
	}
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Request(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPut, path, nil, body, out)
}

// deleted issues a DELETE and reports success, swallowing business rejections.
func (c *Client) deleted(ctx context.Context, path string) (bool, error) {
	err := c.Request(ctx, http.MethodDelete, path, nil, nil, nil)
	if err == nil {
		return true, nil
	}
	return false, swallowBusiness(err)
}

var errEmptyID = errors.New("empty identifier")
