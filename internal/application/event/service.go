package event

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// CreatedMessage 创建成功提示
const CreatedMessage = "Event created successfully"

// ErrEmptyStatus 状态为空
var ErrEmptyStatus = errors.New("status must not be empty")

// IDGenerator 事件 ID 生成器
type IDGenerator func() string

// NewUUIDGenerator 使用 UUID v4 生成事件 ID
func NewUUIDGenerator() IDGenerator {
	return func() string {
		return uuid.New().String()
	}
}

// Service 事件应用服务（用例编排）
type Service struct {
	repo     event.Repository
	newID    IDGenerator
	now      func() time.Time
	window   atomic.Int64
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewService 创建事件应用服务
func NewService(
	repo event.Repository,
	cfg *config.EngineConfig,
	recorder metrics.Recorder,
	newID IDGenerator,
) *Service {
	s := &Service{
		repo:     repo,
		newID:    newID,
		now:      time.Now,
		recorder: recorder,
		logger:   log.NewModuleLogger("event", "service"),
	}
	window := cfg.ConflictWindow
	if window <= 0 {
		window = event.DefaultConflictWindow
	}
	s.window.Store(int64(window))
	return s
}

// ConflictWindow 当前冲突窗口
func (s *Service) ConflictWindow() time.Duration {
	return time.Duration(s.window.Load())
}

// SetConflictWindow 更新冲突窗口，只影响之后的创建
func (s *Service) SetConflictWindow(window time.Duration) {
	if window <= 0 {
		return
	}
	old := time.Duration(s.window.Swap(int64(window)))
	if old != window {
		s.logger.Info("conflict window updated",
			"old", old.String(),
			"new", window.String(),
		)
	}
}

// Create 创建事件（用例）
// 冲突检测与插入在仓储的同一临界区内完成
func (s *Service) Create(ctx context.Context, dto *CreateEventDTO) (*CreateEventResultDTO, error) {
	id := s.newID()
	e := event.NewEvent(id, dto.Title, dto.Description, dto.ScheduledTime, s.now())
	logger := log.FromContext(log.WithEventID(ctx, id), s.logger)

	if err := s.repo.Insert(e, s.ConflictWindow()); err != nil {
		var conflict *event.ConflictError
		if errors.As(err, &conflict) {
			s.recorder.EventConflict(ctx)
			logger.Info("event rejected by conflict window",
				"existing_id", conflict.ExistingID,
				"scheduled_time", dto.ScheduledTime.UTC().Format(time.RFC3339),
			)
		}
		return nil, err
	}

	s.recorder.EventCreated(ctx)
	logger.Info("event created",
		"title", e.Title,
		"scheduled_time", e.ScheduledTime.UTC().Format(time.RFC3339),
	)

	return &CreateEventResultDTO{
		Message: CreatedMessage,
		EventID: id,
	}, nil
}

// List 列出事件，status 为空时返回全部
func (s *Service) List(ctx context.Context, status string) []*EventDTO {
	return toDTOs(s.repo.FindAll(event.Status(status)))
}

// Events 列出领域事件，供导出使用
func (s *Service) Events(ctx context.Context, status string) []*event.Event {
	return s.repo.FindAll(event.Status(status))
}

// Get 查询单个事件
func (s *Service) Get(ctx context.Context, id string) (*EventDTO, error) {
	e, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return toDTO(e), nil
}

// SetStatus 无条件覆盖事件状态，接受任意非空字符串
func (s *Service) SetStatus(ctx context.Context, id, status string) (*EventDTO, error) {
	if strings.TrimSpace(status) == "" {
		return nil, ErrEmptyStatus
	}

	logger := log.FromContext(log.WithEventID(ctx, id), s.logger)
	newStatus := event.Status(status)
	if !newStatus.IsKnown() {
		logger.Warn("setting non-standard event status", "status", status)
	}

	e, err := s.repo.UpdateStatus(id, newStatus)
	if err != nil {
		return nil, err
	}

	logger.Info("event status updated", "status", status)
	return toDTO(e), nil
}
