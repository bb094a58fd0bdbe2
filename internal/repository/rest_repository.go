package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Tomlord1122/listsync/internal/domain"
)

// Collection defines the operations on a remote record collection.
type Collection[T domain.Record] interface {
	// List fetches every record in server order.
	List(ctx context.Context) ([]T, error)

	// Create posts body and returns the stored record with its assigned id.
	Create(ctx context.Context, body any) (T, error)

	// Update puts body to the record with the given id and returns the full
	// updated record.
	Update(ctx context.Context, id domain.ID, body any) (T, error)

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id domain.ID) error
}

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

type restCollection[T domain.Record] struct {
	base   *url.URL
	client *http.Client
	logger *slog.Logger
}

type options struct {
	client *http.Client
	logger *slog.Logger
}

// Option configures a REST collection.
type Option func(*options)

// WithHTTPClient sets the client used for requests. Its Timeout bounds each call.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewRESTCollection creates a client for the collection resource at baseURL.
func NewRESTCollection[T domain.Record](baseURL string, opts ...Option) (Collection[T], error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid collection URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid collection URL %q: want http(s)://host/path", baseURL)
	}

	o := options{client: http.DefaultClient, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &restCollection[T]{base: u, client: o.client, logger: o.logger}, nil
}

func (c *restCollection[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := c.do(ctx, http.MethodGet, c.base, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	seen := make(map[domain.ID]struct{}, len(records))
	for _, r := range records {
		id := r.RecordID()
		if id == "" {
			return nil, fmt.Errorf("%w: GET %s: record without id", ErrMalformedResponse, c.base)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: GET %s: duplicate id %s", ErrMalformedResponse, c.base, id)
		}
		seen[id] = struct{}{}
	}
	return records, nil
}

func (c *restCollection[T]) Create(ctx context.Context, body any) (T, error) {
	var record T
	if err := c.do(ctx, http.MethodPost, c.base, body, &record); err != nil {
		return record, err
	}
	if record.RecordID() == "" {
		var zero T
		return zero, fmt.Errorf("%w: POST %s: created record has no id", ErrMalformedResponse, c.base)
	}
	return record, nil
}

func (c *restCollection[T]) Update(ctx context.Context, id domain.ID, body any) (T, error) {
	var record T
	u := c.recordURL(id)
	if err := c.do(ctx, http.MethodPut, u, body, &record); err != nil {
		return record, err
	}
	if record.RecordID() != id {
		var zero T
		return zero, fmt.Errorf("%w: PUT %s: response is for id %q", ErrMalformedResponse, u, record.RecordID())
	}
	return record, nil
}

func (c *restCollection[T]) Delete(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodDelete, c.recordURL(id), nil, nil)
}

func (c *restCollection[T]) recordURL(id domain.ID) *url.URL {
	return c.base.JoinPath(url.PathEscape(string(id)))
}

// do sends one request. A nil out discards the response body.
func (c *restCollection[T]) do(ctx context.Context, method string, u *url.URL, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.Must(uuid.NewV7()).String()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "url", u.String(), "request_id", reqID, "err", err)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, u, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", method,
		"url", u.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:  method,
			URL:     u.String(),
			Code:    resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, u, err)
	}
	return nil
}

// errorMessage pulls {"error": "..."} out of a failed response, falling back
// to the raw text.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return string(bytes.TrimSpace(raw))
}
