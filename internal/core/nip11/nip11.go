// Package nip11 提供中继元数据文档获取
//
// 元数据通过端点的伴生 HTTP 地址获取（ws → http, wss → https），
// 请求 application/nostr+json 内容类型。获取失败只返回错误值，
// 上层将其降级为合规性 false，绝不中断探测流程。
package nip11

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nostrkit/go-relayprobe/internal/util/logger"
	"github.com/nostrkit/go-relayprobe/pkg/types"
)

var log = logger.Logger("nip11")

// DefaultFetchTimeout 默认元数据获取超时
const DefaultFetchTimeout = 5 * time.Second

// maxDocumentSize 元数据文档大小上限
const maxDocumentSize = 1 << 20 // 1 MiB

// Client 中继元数据客户端
type Client struct {
	http *http.Client
}

// NewClient 创建元数据客户端
//
// httpClient 为 nil 时使用带默认超时的客户端。
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &Client{http: httpClient}
}

// Fetch 获取端点的元数据文档
//
// 非 2xx 响应或解析失败均返回错误，调用方据此降级处理。
func (c *Client) Fetch(ctx context.Context, endpoint string) (*types.RelayInfo, error) {
	infoURL, err := CompanionURL(endpoint)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("nip11: build request: %w", err)
	}
	req.Header.Set("Accept", "application/nostr+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nip11: fetch %s: %w", infoURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("nip11: fetch %s: unexpected status %d", infoURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("nip11: read body: %w", err)
	}

	var info types.RelayInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("nip11: parse document: %w", err)
	}

	log.Debug("metadata fetched",
		"endpoint", endpoint,
		"software", info.Software,
		"nips", len(info.SupportedNIPs))

	return &info, nil
}

// CompanionURL 将会话端点地址转换为伴生 HTTP 地址
//
// ws → http，wss → https；其他 scheme 返回错误。
func CompanionURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("nip11: parse endpoint: %w", err)
	}

	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("nip11: unsupported scheme %q", u.Scheme)
	}

	return u.String(), nil
}
