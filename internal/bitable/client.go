package bitable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

const (
	feishuBaseURL = "https://open.feishu.cn/open-apis"

	listPageSize = 100
	// tokenSlack renews the tenant token this long before it expires.
	tokenSlack = 5 * time.Minute
)

// Config holds the credentials and tuning for one Bitable table.
type Config struct {
	AppID     string
	AppSecret string
	AppToken  string // base/app token identifying the Bitable app
	TableID   string

	// BaseURL overrides the API host, e.g. open.larksuite.com for
	// international tenants. Defaults to open.feishu.cn.
	BaseURL string

	// MaxFieldChars caps a single text field; longer values are chunked.
	MaxFieldChars int

	HTTPClient *http.Client
}

// Client talks to one Feishu Bitable table. Safe for the single sequential
// process this pipeline runs; the token and cache guards exist so a cleanup
// goroutine cannot corrupt them, not to support concurrent batch runs.
type Client struct {
	cfg  Config
	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time

	cache *RecordCache
}

// NewClient builds a client with its own explicit record cache.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.MaxFieldChars <= 0 {
		cfg.MaxFieldChars = 30000
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = feishuBaseURL
	}
	return &Client{cfg: cfg, http: cfg.HTTPClient, cache: NewRecordCache()}
}

// MaxFieldChars returns the configured per-field cap.
func (c *Client) MaxFieldChars() int { return c.cfg.MaxFieldChars }

// apiError is the non-zero code/msg envelope every Feishu response carries.
type apiError struct {
	Code int
	Msg  string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("feishu API error %d: %s", e.Code, e.Msg)
}

// tenantToken returns a valid tenant access token, fetching a fresh one when
// the cached token is near expiry.
func (c *Client) tenantToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"app_id":     c.cfg.AppID,
		"app_secret": c.cfg.AppSecret,
	})
	resp, err := curator.RetryHTTP(ctx, curator.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/v3/tenant_access_token/internal", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		return c.http.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("tenant token: %w", err)
	}
	defer resp.Body.Close()

	var data struct {
		Code              int    `json:"code"`
		Msg               string `json:"msg"`
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"` // seconds
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("tenant token decode: %w", err)
	}
	if data.Code != 0 {
		return "", &apiError{Code: data.Code, Msg: data.Msg}
	}

	c.token = data.TenantAccessToken
	c.tokenExp = time.Now().Add(time.Duration(data.Expire)*time.Second - tokenSlack)
	slog.Debug("bitable: tenant token refreshed")
	return c.token, nil
}

func (c *Client) recordsURL() string {
	return fmt.Sprintf("%s/bitable/v1/apps/%s/tables/%s/records", c.cfg.BaseURL, c.cfg.AppToken, c.cfg.TableID)
}

// call performs one authenticated API request and decodes the envelope into
// out (which must contain Code/Msg fields via apiEnvelope embedding).
func (c *Client) call(ctx context.Context, method, rawURL string, body any, out any) error {
	curator.IncrTableRequests()

	token, err := c.tenantToken(ctx)
	if err != nil {
		curator.IncrTableErrors()
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	resp, err := curator.RetryHTTP(ctx, curator.DefaultRetryConfig, func() (*http.Response, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		return c.http.Do(req)
	})
	if err != nil {
		curator.IncrTableErrors()
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		curator.IncrTableErrors()
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type apiEnvelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e apiEnvelope) err() error {
	if e.Code != 0 {
		curator.IncrTableErrors()
		return &apiError{Code: e.Code, Msg: e.Msg}
	}
	return nil
}

type wireRecord struct {
	RecordID    string         `json:"record_id"`
	CreatedTime int64          `json:"created_time"`
	Fields      map[string]any `json:"fields"`
}

// ListRecords returns every row of the table, through the record cache.
// forceRefresh bypasses the cache; use it at the start of a batch run.
func (c *Client) ListRecords(ctx context.Context, forceRefresh bool) ([]Record, error) {
	if !forceRefresh {
		if records, ok := c.cache.Get(); ok {
			return records, nil
		}
	}

	var all []Record
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("page_size", fmt.Sprint(listPageSize))
		if pageToken != "" {
			q.Set("page_token", pageToken)
		}

		var out struct {
			apiEnvelope
			Data struct {
				Items     []wireRecord `json:"items"`
				HasMore   bool         `json:"has_more"`
				PageToken string       `json:"page_token"`
			} `json:"data"`
		}
		if err := c.call(ctx, http.MethodGet, c.recordsURL()+"?"+q.Encode(), nil, &out); err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		if err := out.err(); err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}

		for _, item := range out.Data.Items {
			all = append(all, recordFromWire(item.RecordID, item.CreatedTime, item.Fields))
		}
		if !out.Data.HasMore {
			break
		}
		pageToken = out.Data.PageToken
	}

	c.cache.Set(all)
	slog.Debug("bitable: listed records", slog.Int("count", len(all)))
	return all, nil
}

// FindByLink returns every record sharing a source link: one element for a
// plain record, the whole ordered group for a chunked one, nil when absent.
func (c *Client) FindByLink(ctx context.Context, link string) ([]Record, error) {
	records, err := c.ListRecords(ctx, false)
	if err != nil {
		return nil, err
	}
	var group []Record
	for _, r := range records {
		if r.SourceLink == link {
			group = append(group, r)
		}
	}
	return group, nil
}

// BatchCreate inserts records in one call and invalidates the cache.
func (c *Client) BatchCreate(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	type wireFields struct {
		Fields map[string]any `json:"fields"`
	}
	payload := struct {
		Records []wireFields `json:"records"`
	}{}
	for _, r := range records {
		payload.Records = append(payload.Records, wireFields{Fields: r.ToFields()})
	}

	var out struct{ apiEnvelope }
	if err := c.call(ctx, http.MethodPost, c.recordsURL()+"/batch_create", payload, &out); err != nil {
		return fmt.Errorf("batch create: %w", err)
	}
	if err := out.err(); err != nil {
		return fmt.Errorf("batch create: %w", err)
	}
	c.cache.Invalidate()
	slog.Info("bitable: records created", slog.Int("count", len(records)))
	return nil
}

// UpdateRecord writes the given fields on one record and invalidates the cache.
func (c *Client) UpdateRecord(ctx context.Context, recordID string, fields map[string]any) error {
	payload := map[string]any{"fields": fields}
	var out struct{ apiEnvelope }
	if err := c.call(ctx, http.MethodPut, c.recordsURL()+"/"+recordID, payload, &out); err != nil {
		return fmt.Errorf("update record %s: %w", recordID, err)
	}
	if err := out.err(); err != nil {
		return fmt.Errorf("update record %s: %w", recordID, err)
	}
	c.cache.Invalidate()
	return nil
}

// DeleteRecord removes one record and invalidates the cache.
func (c *Client) DeleteRecord(ctx context.Context, recordID string) error {
	var out struct{ apiEnvelope }
	if err := c.call(ctx, http.MethodDelete, c.recordsURL()+"/"+recordID, nil, &out); err != nil {
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}
	if err := out.err(); err != nil {
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}
	c.cache.Invalidate()
	return nil
}
