package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client 远端套餐目录 HTTP 客户端。
// 目录 API 约定：HTTP 200 + success:false 表示逻辑失败，错误信息在 error 字段。
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient 创建目录客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// FetchPlans 拉取套餐列表；carrierFilter 非空时按运营商名子串过滤（服务端大小写不敏感）
func (c *Client) FetchPlans(ctx context.Context, carrierFilter string) ([]PlanDTO, error) {
	u, err := url.Parse(c.BaseURL + "/telecom_plans")
	if err != nil {
		return nil, fmt.Errorf("catalog url: %w", err)
	}
	if carrierFilter != "" {
		q := u.Query()
		q.Set("carrier", carrierFilter)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 读掉 body 以复用连接
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("catalog fetch: unexpected status %d", resp.StatusCode)
	}

	var env planEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("catalog error: %s", env.Error)
	}
	return env.Data, nil
}
