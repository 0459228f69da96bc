package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/domain/notification"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/infrastructure/metrics"
)

// Service 通知应用服务（用例编排）
type Service struct {
	pusher    Pusher
	domainSvc *notification.Service
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewService 创建应用服务
func NewService(
	pusher Pusher,
	domainSvc *notification.Service,
	recorder metrics.Recorder,
) *Service {
	return &Service{
		pusher:    pusher,
		domainSvc: domainSvc,
		recorder:  recorder,
		logger:    log.NewModuleLogger("notification", "service"),
	}
}

// NotifyEventSoon 广播事件即将开始的提醒（用例）
// 推送失败只记录日志，不影响调用方
func (s *Service) NotifyEventSoon(ctx context.Context, e *event.Event, horizon time.Duration) {
	msg := notification.NewReminder(e, s.domainSvc.HorizonLabel(horizon))
	logger := log.FromContext(log.WithEventID(ctx, e.ID), s.logger)

	delivered, err := s.pusher.Broadcast(msg)
	if err != nil {
		logger.Warn("failed to broadcast reminder", "error", err)
		return
	}

	s.recorder.ReminderSent(ctx, delivered)
	logger.Info("reminder broadcast",
		"title", e.Title,
		"delivered", delivered,
	)
}

// Welcome 订阅者连接后的第一条消息
func (s *Service) Welcome() *notification.Message {
	return notification.NewConnectionEstablished()
}

// Subscribers 在线订阅者数
func (s *Service) Subscribers() int {
	return s.pusher.Subscribers()
}
