package persist

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

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/httputil"
	"github.com/matzehuels/trackmap/pkg/observability"
	"github.com/matzehuels/trackmap/pkg/payload"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxResponseBytes   = 32 << 20
)

// HTTPRemote implements [Remote] against a field API server.
type HTTPRemote struct {
	base     string
	http     *http.Client
	token    string
	attempts int
	delay    time.Duration
}

// HTTPOption configures an HTTPRemote.
type HTTPOption func(*HTTPRemote)

// WithToken sends token as a bearer credential.
func WithToken(token string) HTTPOption { return func(r *HTTPRemote) { r.token = token } }

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption { return func(r *HTTPRemote) { r.http = c } }

// WithRetry sets the number of attempts and the initial backoff delay for
// transient failures.
func WithRetry(attempts int, delay time.Duration) HTTPOption {
	return func(r *HTTPRemote) { r.attempts, r.delay = attempts, delay }
}

// NewHTTPRemote creates a client for the field API at baseURL.
func NewHTTPRemote(baseURL string, opts ...HTTPOption) (*HTTPRemote, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	r := &HTTPRemote{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultHTTPTimeout},
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *HTTPRemote) fieldsURL(key Key) string {
	return r.base + "/api/projects/" + url.PathEscape(key.ProjectID) + "/fields"
}

func (r *HTTPRemote) fieldURL(key Key) string {
	return r.fieldsURL(key) + "/" + url.PathEscape(key.FieldID)
}

func (r *HTTPRemote) Load(ctx context.Context, key Key) (payload.Document, error) {
	if err := key.Validate(); err != nil {
		return payload.Document{}, err
	}
	var doc payload.Document
	err := httputil.Retry(ctx, r.attempts, r.delay, func() error {
		body, err := r.do(ctx, http.MethodGet, r.fieldURL(key), nil)
		if err != nil {
			return err
		}
		doc, _, err = payload.Parse(body)
		return err
	})
	return doc, err
}

func (r *HTTPRemote) Save(ctx context.Context, key Key, doc payload.Document) (Receipt, error) {
	if err := key.validateProject(); err != nil {
		return Receipt{}, err
	}
	data, err := payload.Marshal(doc)
	if err != nil {
		return Receipt{}, errors.Wrap(errors.ErrCodeInternal, err, "encode field")
	}

	method, target := http.MethodPut, r.fieldURL(key)
	if key.FieldID == "" {
		method, target = http.MethodPost, r.fieldsURL(key)
	}

	var rec Receipt
	err = httputil.Retry(ctx, r.attempts, r.delay, func() error {
		body, err := r.do(ctx, method, target, data)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &rec); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode save receipt")
		}
		return nil
	})
	return rec, err
}

func (r *HTTPRemote) do(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := r.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read response")}
	}
	if err := checkStatus(resp.StatusCode, resp.Header, data); err != nil {
		return nil, err
	}
	return data, nil
}

// apiError is the error body written by the field API.
type apiError struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func checkStatus(code int, h http.Header, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	msg := http.StatusText(code)
	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.Error != "" {
		msg = ae.Error
	}
	switch {
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFieldNotFound, "%s", msg)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "%s", msg)
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return errors.New(errors.ErrCodeInvalidInput, "%s", msg)
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(h.Get("Retry-After"))
		return &httputil.RetryableError{Err: &errors.RateLimitedError{RetryAfter: retryAfter, Message: msg}}
	case code >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "status %d: %s", code, msg)}
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d: %s", code, msg)
	}
}

var _ Remote = (*HTTPRemote)(nil)

// String describes the remote for log output.
func (r *HTTPRemote) String() string { return fmt.Sprintf("http(%s)", r.base) }
