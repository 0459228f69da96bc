package event

import (
	"time"

	"github.com/eventd/backend/internal/domain/event"
)

// CreateEventDTO 创建事件请求
type CreateEventDTO struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	ScheduledTime time.Time `json:"scheduledTime" binding:"required"`
}

// CreateEventResultDTO 创建事件响应
type CreateEventResultDTO struct {
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

// UpdateStatusDTO 更新状态请求
type UpdateStatusDTO struct {
	Status string `json:"status" binding:"required"`
}

// EventDTO 事件响应
type EventDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ScheduledTime time.Time `json:"scheduledTime"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// toDTO 转换为 DTO
func toDTO(e *event.Event) *EventDTO {
	return &EventDTO{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		ScheduledTime: e.ScheduledTime.UTC(),
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt.UTC(),
	}
}

func toDTOs(events []*event.Event) []*EventDTO {
	result := make([]*EventDTO, 0, len(events))
	for _, e := range events {
		result = append(result, toDTO(e))
	}
	return result
}
