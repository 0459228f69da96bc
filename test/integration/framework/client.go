//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用业务结构体
package framework

import (
	"fmt"
	"time"

	appevent "github.com/eventd/backend/internal/application/event"
	domainLifecycle "github.com/eventd/backend/internal/domain/lifecycle"
	"github.com/go-resty/resty/v2"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// APIResponse 通用 API 响应（复用 response.Response 的 JSON 结构）
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// CreateEvent 创建事件，返回 HTTP 状态码与响应
func (c *APIClient) CreateEvent(title, description string, scheduledTime time.Time) (int, *APIResponse[appevent.CreateEventResultDTO], error) {
	var result APIResponse[appevent.CreateEventResultDTO]
	resp, err := c.client.R().
		SetBody(appevent.CreateEventDTO{
			Title:         title,
			Description:   description,
			ScheduledTime: scheduledTime,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/api/v1/events")
	if err != nil {
		return 0, nil, fmt.Errorf("create event: %w", err)
	}
	return resp.StatusCode(), &result, nil
}

// ListEvents 列出事件，status 为空表示全部
func (c *APIClient) ListEvents(status string) ([]appevent.EventDTO, error) {
	var result APIResponse[[]appevent.EventDTO]
	req := c.client.R().SetResult(&result)
	if status != "" {
		req.SetQueryParam("status", status)
	}
	resp, err := req.Get("/api/v1/events")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list events: unexpected status %d", resp.StatusCode())
	}
	return result.Data, nil
}

// SetStatus 更新事件状态，返回 HTTP 状态码
func (c *APIClient) SetStatus(id, status string) (int, *APIResponse[appevent.EventDTO], error) {
	var result APIResponse[appevent.EventDTO]
	resp, err := c.client.R().
		SetBody(appevent.UpdateStatusDTO{Status: status}).
		SetResult(&result).
		SetError(&result).
		Patch("/api/v1/events/" + id + "/status")
	if err != nil {
		return 0, nil, fmt.Errorf("set status: %w", err)
	}
	return resp.StatusCode(), &result, nil
}

// RunAudit 立即执行一次审计写入
func (c *APIClient) RunAudit() (int, error) {
	resp, err := c.client.R().Post("/api/v1/lifecycle/audit")
	if err != nil {
		return 0, fmt.Errorf("run audit: %w", err)
	}
	return resp.StatusCode(), nil
}

// LifecycleStatus 查询生命周期状态
func (c *APIClient) LifecycleStatus() (*domainLifecycle.LifecycleStatus, error) {
	var result APIResponse[domainLifecycle.LifecycleStatus]
	resp, err := c.client.R().SetResult(&result).Get("/api/v1/lifecycle/status")
	if err != nil {
		return nil, fmt.Errorf("lifecycle status: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("lifecycle status: unexpected status %d", resp.StatusCode())
	}
	return &result.Data, nil
}
