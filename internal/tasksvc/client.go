package tasksvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nibzard/tasklist/internal/task"
)

// DefaultCollectionPath is the collection endpoint relative to the base URL.
const DefaultCollectionPath = "/tasks/"

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client is an HTTP implementation of Service.
type Client struct {
	collection   *url.URL
	httpClient   *http.Client
	logger       *log.Logger
	metrics      *clientMetrics
	newRequestID func() string
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegisterer registers client request metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) {
		if reg != nil {
			c.metrics = newClientMetrics(reg)
		}
	}
}

// WithRequestIDFunc overrides request id generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// NewClient creates a client for the service at baseURL. collectionPath is
// joined onto the base URL's path; empty means DefaultCollectionPath.
func NewClient(baseURL, collectionPath string, opts ...Option) (*Client, error) {
	collection, err := CollectionURL(baseURL, collectionPath)
	if err != nil {
		return nil, err
	}
	c := &Client{
		collection:   collection,
		httpClient:   &http.Client{},
		logger:       log.New(io.Discard),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CollectionURL resolves the collection endpoint. The result always ends in a slash.
func CollectionURL(baseURL, collectionPath string) (*url.URL, error) {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return nil, fmt.Errorf("service url is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse service url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("service url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("service url %q: missing host", baseURL)
	}
	if collectionPath == "" {
		collectionPath = DefaultCollectionPath
	}
	p := strings.TrimSuffix(u.Path, "/") + "/" + strings.Trim(collectionPath, "/") + "/"
	u.Path = strings.ReplaceAll(p, "//", "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// Collection returns the collection endpoint URL.
func (c *Client) Collection() string {
	return c.collection.String()
}

func (c *Client) itemURL(id task.ID, suffix string) string {
	u := *c.collection
	u.Path = c.collection.Path + id.String() + suffix
	u.RawPath = c.collection.EscapedPath() + url.PathEscape(id.String()) + suffix
	return u.String()
}

// List implements Service.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]task.Task, error) {
	u := *c.collection
	if opts.Completed != nil {
		q := url.Values{}
		q.Set("completed", strconv.FormatBool(*opts.Completed))
		u.RawQuery = q.Encode()
	}
	body, err := c.do(ctx, "list", http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	tasks, err := task.DecodeList(body)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create implements Service.
func (c *Client) Create(ctx context.Context, nt task.NewTask) (*task.Task, error) {
	body, err := c.do(ctx, "create", http.MethodPost, c.collection.String(), nt)
	if err != nil {
		return nil, err
	}
	return decodeTask(body, "create task")
}

// Complete implements Service.
func (c *Client) Complete(ctx context.Context, id task.ID) error {
	if id.IsZero() {
		return fmt.Errorf("complete task: empty id")
	}
	_, err := c.do(ctx, "complete", http.MethodPatch, c.itemURL(id, "/complete"), nil)
	return err
}

// Delete implements Service.
func (c *Client) Delete(ctx context.Context, id task.ID) error {
	if id.IsZero() {
		return fmt.Errorf("delete task: empty id")
	}
	_, err := c.do(ctx, "delete", http.MethodDelete, c.itemURL(id, ""), nil)
	return err
}

// Update implements Service.
func (c *Client) Update(ctx context.Context, id task.ID, u task.Update) (*task.Task, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("update task: empty id")
	}
	body, err := c.do(ctx, "update", http.MethodPut, c.itemURL(id, ""), u)
	if err != nil {
		return nil, err
	}
	return decodeTask(body, "update task")
}

func decodeTask(body []byte, action string) (*task.Task, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", action, err)
	}
	return &t, nil
}

// do sends one request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, op, method, target string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := c.newRequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With("request_id", requestID, "method", method, "url", target)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(op, "error", elapsed)
		logger.Debug("request failed", "duration", elapsed, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.observe(op, strconv.Itoa(resp.StatusCode), elapsed)
	logger.Debug("request done", "status", resp.StatusCode, "duration", elapsed)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}
	return body, nil
}

// errorMessage extracts {"error": ...} or {"message": ...} from a response body.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
