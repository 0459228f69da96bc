package lifecycle

import (
	"encoding/json"
	"testing"
	"time"

	appevent "github.com/eventd/backend/internal/application/event"
	"github.com/eventd/backend/internal/application/notification"
	domainnotification "github.com/eventd/backend/internal/domain/notification"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/metrics"
	infranotification "github.com/eventd/backend/internal/infrastructure/notification"
	"github.com/eventd/backend/internal/infrastructure/storage"
	"github.com/eventd/backend/internal/infrastructure/websocket"
	"github.com/stretchr/testify/require"
)

var engineCfg = &config.EngineConfig{
	ConflictWindow:        time.Hour,
	ReminderHorizon:       5 * time.Minute,
	LifecycleTickInterval: time.Minute,
	LogTickInterval:       24 * time.Hour,
}

// fixture 用真实组件组装的引擎
type fixture struct {
	repo      *storage.MemoryEventRepository
	hub       *websocket.Hub
	events    *appevent.Service
	notifier  *notification.Service
	scheduler *Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := storage.NewMemoryEventRepository()
	hub := websocket.NewHub()
	t.Cleanup(hub.Close)

	notifier := notification.NewService(
		infranotification.NewWebSocketPusher(hub),
		domainnotification.NewService(),
		metrics.NoopRecorder{},
	)

	return &fixture{
		repo:      repo,
		hub:       hub,
		events:    appevent.NewService(repo, engineCfg, metrics.NoopRecorder{}, appevent.NewUUIDGenerator()),
		notifier:  notifier,
		scheduler: NewScheduler(repo, notifier, engineCfg, metrics.NoopRecorder{}),
	}
}

func (f *fixture) subscribe(id string) *websocket.Subscriber {
	sub := websocket.NewSubscriber(id, 16)
	f.hub.Register(sub)
	return sub
}

// drain 取出订阅者队列中的全部消息
func drain(t *testing.T, sub *websocket.Subscriber) []domainnotification.Message {
	t.Helper()
	var msgs []domainnotification.Message
	for {
		select {
		case data := <-sub.Outbound():
			var msg domainnotification.Message
			require.NoError(t, json.Unmarshal(data, &msg))
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}
