// Package dataservice implements the REST boundary the page controllers load
// from. Upstream responses are normalized here (canonical field names, one
// list shape, typed errors) so nothing above this layer guesses at formats.
package dataservice

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

	"warehouse/internal/domain"
)

// Client is the shared HTTP plumbing for every entity service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Token supplies the bearer token per request when the upstream requires
	// auth. Nil means unauthenticated.
	Token func() string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.ValidationError{Msg: "unencodable payload", Err: err}
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return domain.NetworkError{Msg: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != nil {
		if tok := c.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.NetworkError{Msg: "upstream unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return domain.NetworkError{Msg: "reading upstream response", Err: err}
	}

	if resp.StatusCode >= 400 {
		return mapStatusError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NetworkError{Msg: "malformed upstream response", Err: err}
	}
	return nil
}

// mapStatusError converts upstream failures into the domain taxonomy, keeping
// the upstream's own message when it sent one.
func mapStatusError(status int, raw []byte) error {
	msg := upstreamMessage(raw)
	switch {
	case status == http.StatusNotFound:
		return domain.NotFoundError{Resource: msg}
	case status == http.StatusConflict:
		return domain.ConflictError{Msg: msg}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.ValidationError{Msg: nonEmpty(msg, "invalid request")}
	default:
		return domain.NetworkError{Msg: nonEmpty(msg, fmt.Sprintf("upstream error (status %d)", status))}
	}
}

func upstreamMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, m := range []string{envelope.Error, envelope.Message, envelope.Detail} {
			if strings.TrimSpace(m) != "" {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Get fetches one record and canonicalizes its fields.
func (c *Client) Get(ctx context.Context, path string) (domain.Record, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return Canonical(raw), nil
}

// List fetches a collection, accepting either a {items,total} envelope or a
// bare array, and returns the one normalized shape.
func (c *Client) List(ctx context.Context, path string, q domain.ListQuery) (domain.ListResult, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, queryValues(q), nil, &raw); err != nil {
		return domain.ListResult{}, err
	}
	return decodeList(raw)
}

func decodeList(raw json.RawMessage) (domain.ListResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.ListResult{}, nil
	}

	if trimmed[0] == '[' {
		var items []map[string]any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return domain.ListResult{}, domain.NetworkError{Msg: "malformed list response", Err: err}
		}
		return domain.ListResult{Items: canonicalAll(items), Total: len(items)}, nil
	}

	var envelope struct {
		Items []map[string]any `json:"items"`
		Total *int             `json:"total"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return domain.ListResult{}, domain.NetworkError{Msg: "malformed list response", Err: err}
	}
	out := domain.ListResult{Items: canonicalAll(envelope.Items)}
	if envelope.Total != nil {
		out.Total = *envelope.Total
	} else {
		out.Total = len(out.Items)
	}
	return out, nil
}

func canonicalAll(items []map[string]any) []domain.Record {
	out := make([]domain.Record, 0, len(items))
	for _, it := range items {
		out = append(out, Canonical(it))
	}
	return out
}

func queryValues(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	set := func(key, val string) {
		if strings.TrimSpace(val) != "" {
			v.Set(key, val)
		}
	}
	set("search", q.Search)
	set("status", q.Status)
	set("priority", q.Priority)
	set("start_date", q.StartDate)
	set("end_date", q.EndDate)
	return v
}

// Create posts a payload and returns the canonicalized created record.
func (c *Client) Create(ctx context.Context, path string, payload domain.Record) (domain.Record, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &raw); err != nil {
		return nil, err
	}
	return Canonical(raw), nil
}

// Update sends a partial payload; the server answers with the full record.
func (c *Client) Update(ctx context.Context, path string, payload domain.Record) (domain.Record, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPut, path, nil, payload, &raw); err != nil {
		return nil, err
	}
	return Canonical(raw), nil
}

// Delete issues a DELETE and discards any body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
