package handler

import (
	"errors"
	"net/http"

	"github.com/eventd/backend/internal/application/lifecycle"
	"github.com/eventd/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// LifecycleHandler 生命周期管理 API 处理器
type LifecycleHandler struct {
	manager *lifecycle.Manager
}

// NewLifecycleHandler 创建生命周期处理器
func NewLifecycleHandler(manager *lifecycle.Manager) *LifecycleHandler {
	return &LifecycleHandler{
		manager: manager,
	}
}

// GetStatus 获取生命周期状态
// @Summary 获取生命周期状态
// @Description 调度与审计任务的运行状态（用于调试）
// @Tags 生命周期
// @Produce json
// @Success 200 {object} response.Response
// @Router /lifecycle/status [get]
func (h *LifecycleHandler) GetStatus(c *gin.Context) {
	response.Success(c, h.manager.GetStatus(c.Request.Context()))
}

// RunAudit 立即执行一次审计写入
// @Summary 立即写入审计日志
// @Tags 生命周期
// @Produce json
// @Success 200 {object} response.Response
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /lifecycle/audit [post]
func (h *LifecycleHandler) RunAudit(c *gin.Context) {
	completer := h.manager.CompletionLogger()
	if err := completer.RunOnce(c.Request.Context()); err != nil {
		if errors.Is(err, lifecycle.ErrTaskBusy) {
			response.Error(c, http.StatusTooManyRequests, response.CodeBusy, err.Error())
			return
		}
		response.ErrorWithDetail(c, http.StatusInternalServerError, response.CodeInternal, "审计写入失败", err.Error())
		return
	}
	response.Success(c, completer.Status())
}
