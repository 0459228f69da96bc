package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	appevent "github.com/eventd/backend/internal/application/event"
	"github.com/eventd/backend/internal/application/lifecycle"
	"github.com/eventd/backend/internal/application/notification"
	domainnotification "github.com/eventd/backend/internal/domain/notification"
	"github.com/eventd/backend/internal/infrastructure/audit"
	"github.com/eventd/backend/internal/infrastructure/calendar"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/metrics"
	infranotification "github.com/eventd/backend/internal/infrastructure/notification"
	"github.com/eventd/backend/internal/infrastructure/storage"
	"github.com/eventd/backend/internal/infrastructure/websocket"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv 用真实组件组装的处理器
type testEnv struct {
	router  *gin.Engine
	events  *appevent.Service
	manager *lifecycle.Manager
	hub     *websocket.Hub
	logPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Audit.LogPath = filepath.Join(t.TempDir(), "event_history.log")

	repo := storage.NewMemoryEventRepository()
	hub := websocket.NewHub()
	t.Cleanup(hub.Close)

	notifier := notification.NewService(
		infranotification.NewWebSocketPusher(hub),
		domainnotification.NewService(),
		metrics.NoopRecorder{},
	)
	events := appevent.NewService(repo, &cfg.Engine, metrics.NoopRecorder{}, appevent.NewUUIDGenerator())
	manager := lifecycle.NewManager(
		lifecycle.NewScheduler(repo, notifier, &cfg.Engine, metrics.NoopRecorder{}),
		lifecycle.NewCompletionLogger(repo, audit.NewFileSink(cfg.Audit.LogPath), &cfg.Audit, &cfg.Engine, metrics.NoopRecorder{}),
		events,
		notifier,
		nil,
	)

	eventHandler := NewEventHandler(events, calendar.NewExporter())
	lifecycleHandler := NewLifecycleHandler(manager)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/events", eventHandler.Create)
	api.GET("/events", eventHandler.List)
	api.GET("/events/calendar.ics", eventHandler.Calendar)
	api.GET("/events/:id", eventHandler.Get)
	api.PATCH("/events/:id/status", eventHandler.UpdateStatus)
	api.GET("/lifecycle/status", lifecycleHandler.GetStatus)
	api.POST("/lifecycle/audit", lifecycleHandler.RunAudit)

	return &testEnv{
		router:  router,
		events:  events,
		manager: manager,
		hub:     hub,
		logPath: cfg.Audit.LogPath,
	}
}

// do 发送请求，body 非 nil 时编码为 JSON
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope 解析统一响应结构
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// createEvent 通过 API 创建事件并返回 ID
func (e *testEnv) createEvent(t *testing.T, title, scheduledTime string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/events", map[string]string{
		"title":         title,
		"description":   title + " description",
		"scheduledTime": scheduledTime,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result appevent.CreateEventResultDTO
	decode(t, w, &result)
	return result.EventID
}
