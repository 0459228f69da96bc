// Package calendar 将事件导出为 iCalendar
package calendar

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/eventd/backend/internal/domain/event"
)

const (
	// ProductID 日历 PRODID
	ProductID = "-//eventd//event lifecycle engine//EN"
	// PropRawStatus 原始状态字符串
	PropRawStatus = "X-EVENTD-STATUS"
	// ContentType 导出的 MIME 类型
	ContentType = "text/calendar; charset=utf-8"
)

// ErrNoEvents 没有可导出的事件；VCALENDAR 至少需要一个组件
var ErrNoEvents = errors.New("no events to export")

// Exporter iCalendar 导出器
type Exporter struct {
	now func() time.Time
}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Build 构造包含全部事件的 VCALENDAR
func (x *Exporter) Build(events []*event.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	stamp := x.now().UTC()
	for _, e := range events {
		vevent := ical.NewEvent()
		vevent.Props.SetText(ical.PropUID, e.ID)
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		vevent.Props.SetText(ical.PropSummary, e.Title)
		if e.Description != "" {
			vevent.Props.SetText(ical.PropDescription, e.Description)
		}
		vevent.Props.SetDateTime(ical.PropDateTimeStart, e.ScheduledTime.UTC())
		vevent.Props.SetText(ical.PropStatus, MapStatus(e.Status))
		vevent.Props.SetText(PropRawStatus, string(e.Status))
		cal.Children = append(cal.Children, vevent.Component)
	}
	return cal
}

// Encode 写出 iCalendar 文本
func (x *Exporter) Encode(w io.Writer, events []*event.Event) error {
	if len(events) == 0 {
		return ErrNoEvents
	}
	if err := ical.NewEncoder(w).Encode(x.Build(events)); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// MapStatus 事件状态映射为 VEVENT STATUS
// pending 尚未开始记为 TENTATIVE，其余状态记为 CONFIRMED
func MapStatus(s event.Status) string {
	if s == event.StatusPending {
		return "TENTATIVE"
	}
	return "CONFIRMED"
}
