package handler

import (
	"net/http"
	"os"
	"strings"
	"testing"

	appevent "github.com/eventd/backend/internal/application/event"
	"github.com/eventd/backend/internal/infrastructure/calendar"
	"github.com/eventd/backend/internal/interfaces/http/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandler_Create(t *testing.T) {
	t.Run("创建成功", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/v1/events", map[string]string{
			"title":         "Standup",
			"description":   "daily",
			"scheduledTime": "2024-01-01T10:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var result appevent.CreateEventResultDTO
		body := decode(t, w, &result)
		assert.Equal(t, 0, body.Code)
		assert.Equal(t, appevent.CreatedMessage, result.Message)
		assert.NotEmpty(t, result.EventID)
	})

	t.Run("缺少标题", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/v1/events", map[string]string{
			"scheduledTime": "2024-01-01T10:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.CodeBadParams, decode(t, w, nil).Code)
	})

	t.Run("时间格式错误", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/v1/events", map[string]string{
			"title":         "Standup",
			"scheduledTime": "tomorrow morning",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("时间冲突返回 409", func(t *testing.T) {
		env := newTestEnv(t)
		env.createEvent(t, "A", "2024-01-01T10:00:00Z")

		w := env.do(t, http.MethodPost, "/api/v1/events", map[string]string{
			"title":         "B",
			"scheduledTime": "2024-01-01T10:40:00Z",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, response.CodeConflict, decode(t, w, nil).Code)
	})

	t.Run("恰好相差一小时不冲突", func(t *testing.T) {
		env := newTestEnv(t)
		env.createEvent(t, "A", "2024-01-01T10:00:00Z")
		env.createEvent(t, "B", "2024-01-01T11:00:00Z")
	})
}

func TestEventHandler_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	first := env.createEvent(t, "A", "2024-01-01T10:00:00Z")
	second := env.createEvent(t, "B", "2024-01-01T12:00:00Z")

	t.Run("按插入顺序列出", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/events", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var events []appevent.EventDTO
		decode(t, w, &events)
		require.Len(t, events, 2)
		assert.Equal(t, first, events[0].ID)
		assert.Equal(t, second, events[1].ID)
		assert.Equal(t, "pending", events[0].Status)
	})

	t.Run("状态过滤无匹配", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/events?status=completed", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var events []appevent.EventDTO
		decode(t, w, &events)
		assert.Empty(t, events)
	})

	t.Run("查询单个事件", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/events/"+second, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var dto appevent.EventDTO
		decode(t, w, &dto)
		assert.Equal(t, "B", dto.Title)
		assert.Equal(t, "B description", dto.Description)
	})

	t.Run("查询不存在的事件", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/events/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, response.CodeNotFound, decode(t, w, nil).Code)
	})
}

func TestEventHandler_UpdateStatus(t *testing.T) {
	t.Run("更新为 completed", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createEvent(t, "A", "2024-01-01T10:00:00Z")

		w := env.do(t, http.MethodPatch, "/api/v1/events/"+id+"/status", map[string]string{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code)

		var dto appevent.EventDTO
		decode(t, w, &dto)
		assert.Equal(t, "completed", dto.Status)

		// 已完成事件不再占用时间段
		env.createEvent(t, "D", "2024-01-01T10:00:00Z")
	})

	t.Run("接受任意状态字符串", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createEvent(t, "A", "2024-01-01T10:00:00Z")

		w := env.do(t, http.MethodPatch, "/api/v1/events/"+id+"/status", map[string]string{"status": "archived"})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("缺少状态", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createEvent(t, "A", "2024-01-01T10:00:00Z")

		w := env.do(t, http.MethodPatch, "/api/v1/events/"+id+"/status", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("未知 ID 返回 404", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPatch, "/api/v1/events/missing/status", map[string]string{"status": "completed"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/events", nil)
		var events []appevent.EventDTO
		decode(t, w, &events)
		assert.Empty(t, events)
	})
}

func TestEventHandler_Calendar(t *testing.T) {
	env := newTestEnv(t)
	env.createEvent(t, "Standup", "2024-01-01T10:00:00Z")

	w := env.do(t, http.MethodGet, "/api/v1/events/calendar.ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, calendar.ContentType, w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "SUMMARY:Standup")
	assert.Contains(t, body, "STATUS:TENTATIVE")
}

func TestLifecycleHandler(t *testing.T) {
	t.Run("查询状态", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodGet, "/api/v1/lifecycle/status", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var status struct {
			ReminderHorizon string `json:"reminder_horizon"`
			Subscribers     int    `json:"subscribers"`
		}
		decode(t, w, &status)
		assert.Equal(t, "5m0s", status.ReminderHorizon)
		assert.Equal(t, 0, status.Subscribers)
	})

	t.Run("立即写入审计日志", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createEvent(t, "A", "2024-01-01T10:00:00Z")
		env.do(t, http.MethodPatch, "/api/v1/events/"+id+"/status", map[string]string{"status": "completed"})

		w := env.do(t, http.MethodPost, "/api/v1/lifecycle/audit", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data, err := os.ReadFile(env.logPath)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), id+",A,A description,2024-01-01T10:00:00"))
	})
}

func TestEventHandler_CalendarEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/events/calendar.ics?status=completed", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
