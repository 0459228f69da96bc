package handler

import (
	"bytes"
	"errors"
	"net/http"

	appevent "github.com/eventd/backend/internal/application/event"
	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/infrastructure/calendar"
	"github.com/eventd/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// EventHandler 事件处理器
type EventHandler struct {
	service  *appevent.Service
	exporter *calendar.Exporter
}

// NewEventHandler 创建事件处理器
func NewEventHandler(service *appevent.Service, exporter *calendar.Exporter) *EventHandler {
	return &EventHandler{
		service:  service,
		exporter: exporter,
	}
}

// Create 创建事件
// @Summary 创建事件
// @Description 计划时间与未完成事件相差不足冲突窗口时返回 409
// @Tags 事件
// @Accept json
// @Produce json
// @Param body body appevent.CreateEventDTO true "事件信息"
// @Success 201 {object} response.Response{data=appevent.CreateEventResultDTO}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var dto appevent.CreateEventDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeBadParams, "参数错误", err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), &dto)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, result)
}

// List 列出事件
// @Summary 列出事件
// @Description 按插入顺序返回，status 精确匹配
// @Tags 事件
// @Produce json
// @Param status query string false "状态过滤"
// @Success 200 {object} response.Response{data=[]appevent.EventDTO}
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	response.Success(c, h.service.List(c.Request.Context(), c.Query("status")))
}

// Get 查询事件
// @Summary 查询事件
// @Tags 事件
// @Produce json
// @Param id path string true "事件 ID"
// @Success 200 {object} response.Response{data=appevent.EventDTO}
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus 更新事件状态
// @Summary 更新事件状态
// @Description 无条件覆盖，接受任意非空状态字符串
// @Tags 事件
// @Accept json
// @Produce json
// @Param id path string true "事件 ID"
// @Param body body appevent.UpdateStatusDTO true "新状态"
// @Success 200 {object} response.Response{data=appevent.EventDTO}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id}/status [patch]
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	var dto appevent.UpdateStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeBadParams, "参数错误", err.Error())
		return
	}

	result, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), dto.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// Calendar 导出 iCalendar
// @Summary 导出日历
// @Tags 事件
// @Produce text/calendar
// @Param status query string false "状态过滤"
// @Success 200 {string} string "iCalendar 文本"
// @Success 204 "没有可导出的事件"
// @Router /events/calendar.ics [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	var buf bytes.Buffer
	err := h.exporter.Encode(&buf, h.service.Events(c.Request.Context(), c.Query("status")))
	if errors.Is(err, calendar.ErrNoEvents) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, response.CodeInternal, "导出失败", err.Error())
		return
	}
	c.Data(http.StatusOK, calendar.ContentType, buf.Bytes())
}

// writeError 把领域错误映射为 HTTP 响应
func writeError(c *gin.Context, err error) {
	switch event.KindOf(err) {
	case event.KindConflict:
		response.ErrorWithDetail(c, http.StatusConflict, response.CodeConflict, event.ErrConflict.Error(), err.Error())
	case event.KindNotFound:
		response.ErrorWithDetail(c, http.StatusNotFound, response.CodeNotFound, event.ErrNotFound.Error(), err.Error())
	default:
		if errors.Is(err, appevent.ErrEmptyStatus) {
			response.Error(c, http.StatusBadRequest, response.CodeBadParams, err.Error())
			return
		}
		response.ErrorWithDetail(c, http.StatusInternalServerError, response.CodeInternal, "内部错误", err.Error())
	}
}
