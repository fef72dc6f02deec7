package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/syntrixbase/salesgrid/pkg/model"
)

// RecordPage is one page of raw records as answered by the records endpoint.
type RecordPage struct {
	Items []model.Record `json:"items"`
	Total int            `json:"total"`
}

// Client talks to the remote records API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL. A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Reference fetches a reference collection (sellers or customers) as raw JSON.
func (c *Client) Reference(ctx context.Context, name string) (json.RawMessage, error) {
	resp, err := c.get(ctx, "/"+name, "")
	if err != nil {
		return nil, &model.ReferenceLoadError{Collection: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.ReferenceLoadError{
			Collection: name,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ReferenceLoadError{Collection: name, Err: err}
	}
	return body, nil
}

// Records fetches one page of records for the encoded query.
func (c *Client) Records(ctx context.Context, q model.Query) (*RecordPage, error) {
	resp, err := c.get(ctx, "/records", q.Encode())
	if err != nil {
		return nil, &model.RecordLoadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.RecordLoadError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.RecordLoadError{StatusCode: resp.StatusCode, Err: err}
	}
	page, err := decodeRecordPage(body)
	if err != nil {
		return nil, &model.RecordLoadError{StatusCode: resp.StatusCode, Err: err}
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, path, rawQuery string) (*http.Response, error) {
	url := c.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

// decodeRecordPage accepts {items|records|data, total|count} or a bare array.
// A missing total falls back to the number of items.
func decodeRecordPage(body []byte) (*RecordPage, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []model.Record
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return &RecordPage{Items: items, Total: len(items)}, nil
	}

	var envelope struct {
		Items   []model.Record `json:"items"`
		Records []model.Record `json:"records"`
		Data    []model.Record `json:"data"`
		Total   *int           `json:"total"`
		Count   *int           `json:"count"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	page := &RecordPage{Items: envelope.Items}
	if page.Items == nil {
		page.Items = envelope.Records
	}
	if page.Items == nil {
		page.Items = envelope.Data
	}
	switch {
	case envelope.Total != nil:
		page.Total = *envelope.Total
	case envelope.Count != nil:
		page.Total = *envelope.Count
	default:
		page.Total = len(page.Items)
	}
	if page.Total < 0 {
		page.Total = 0
	}
	return page, nil
}
