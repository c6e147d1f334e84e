package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/pkg/config"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

// Observer receives timing for every upstream call, keyed by resource.
type Observer interface {
	ObserveUpstreamCall(resource string, duration time.Duration)
}

// Client talks to the legacy academic backend. It owns a cookie jar so
// the backend's session cookie set on login rides along on every
// subsequent call, matching the SPA's credentials mode.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// New builds a Client for the configured backend.
func New(cfg config.UpstreamConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		logger: logger,
	}, nil
}

// SetObserver attaches a metrics observer. Optional.
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// record is one upstream object before normalization. The backend is
// inconsistent about field casing, so readers take a fallback list of
// keys and use the first one present.
type record map[string]json.RawMessage

func (r record) int64(keys ...string) int64 {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok {
			continue
		}
		var n int64
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		// Some deployments serialize numeric ids as strings.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

func (r record) str(keys ...string) string {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

func (r record) object(keys ...string) (record, bool) {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok {
			continue
		}
		var inner record
		if err := json.Unmarshal(raw, &inner); err == nil && inner != nil {
			return inner, true
		}
	}
	return nil, false
}

// decodeList accepts either a bare JSON array or an envelope object
// whose array sits under "data".
func decodeList(body []byte) ([]record, error) {
	var list []record
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}
	var envelope record
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	raw, ok := envelope["data"]
	if !ok {
		return nil, fmt.Errorf("decode list: response is neither an array nor a data envelope")
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}
	return list, nil
}

// decodeRecord accepts either a bare object or the object under "data".
func decodeRecord(body []byte) (record, error) {
	var rec record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if inner, ok := rec.object("data"); ok {
		return inner, nil
	}
	return rec, nil
}

func (c *Client) getList(ctx context.Context, resource string) ([]record, error) {
	body, err := c.do(ctx, http.MethodGet, resource, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrLoad.Code, appErrors.ErrLoad.Status, fmt.Sprintf("failed to load %s", strings.TrimPrefix(resource, "/")))
	}
	list, err := decodeList(body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrLoad.Code, appErrors.ErrLoad.Status, fmt.Sprintf("failed to decode %s", strings.TrimPrefix(resource, "/")))
	}
	return list, nil
}

func (c *Client) create(ctx context.Context, resource string, payload interface{}) (record, error) {
	body, err := c.do(ctx, http.MethodPost, resource, payload)
	if err != nil {
		return nil, err
	}
	return decodeMutation(body)
}

func (c *Client) update(ctx context.Context, resource string, id int64, payload interface{}) (record, error) {
	body, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", resource, id), payload)
	if err != nil {
		return nil, err
	}
	return decodeMutation(body)
}

func (c *Client) remove(ctx context.Context, resource string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", resource, id), nil)
	return err
}

func decodeMutation(body []byte) (record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return record{}, nil
	}
	rec, err := decodeRecord(body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to decode backend response")
	}
	return rec, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request payload")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.observer != nil {
		c.observer.ObserveUpstreamCall(resourceLabel(path), time.Since(start))
	}
	if err != nil {
		c.logger.Warn("backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrLoad.Code, appErrors.ErrLoad.Status, "backend unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrLoad.Code, appErrors.ErrLoad.Status, "read backend response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, backendMessage(body))
		case http.StatusNotFound:
			return nil, appErrors.Clone(appErrors.ErrNotFound, backendMessage(body))
		default:
			msg := backendMessage(body)
			if msg == "" {
				msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
			}
			return nil, appErrors.Clone(appErrors.ErrUpstream, msg)
		}
	}

	return body, nil
}

// backendMessage digs a human-readable message out of an error body so
// it can be surfaced to the user, per the alert behavior of the SPA.
func backendMessage(body []byte) string {
	var rec record
	if err := json.Unmarshal(body, &rec); err != nil {
		return ""
	}
	return rec.str("message", "Message", "error", "detail")
}

func resourceLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
