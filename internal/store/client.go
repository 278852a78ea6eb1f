package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client — REST-клиент хостингового Postgres-совместимого хранилища
// (PostgREST/Supabase API). Две возможности: билдер табличных запросов
// и вызов именованных RPC-процедур. О ретраях клиент ничего не знает —
// это забота слоя engine.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named("store"),
	}
}

// Table начинает построение запроса к таблице.
func (c *Client) Table(name string) *Query {
	return &Query{client: c, table: name, selectCols: "*"}
}

// RPC вызывает именованную процедуру, возвращающую строки в TABLE-формате.
func (c *Client) RPC(ctx context.Context, name string, params map[string]any) (*Result, error) {
	var body io.Reader
	if params == nil {
		params = map[string]any{}
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("rpc %s: marshal params: %w", name, err)
	}
	body = bytes.NewReader(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/rpc/"+name, body)
	if err != nil {
		return nil, fmt.Errorf("rpc %s: build request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("rpc call", zap.String("fn", name), zap.Int("params", len(params)))
	return c.do(req)
}

// do выполняет запрос и нормализует ответ: 2xx → Result, остальное → *APIError.
func (c *Client) do(req *http.Request) (*Result, error) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Сетевые сбои отдаем как есть — классификатор engine сочтет их transient
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("store response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return nil, apiErr
	}

	var rows []Row
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			// RPC может вернуть одиночный объект вместо массива
			var single Row
			if err2 := json.Unmarshal(raw, &single); err2 != nil {
				return nil, fmt.Errorf("store response decode failed: %w", err)
			}
			rows = []Row{single}
		}
	}
	return &Result{Data: rows}, nil
}
