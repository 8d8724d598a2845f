package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tecmeup123/task-manager-sub000/internal/dto"
	"github.com/tecmeup123/task-manager-sub000/internal/model"
	"github.com/tecmeup123/task-manager-sub000/internal/repository"
	"github.com/tecmeup123/task-manager-sub000/internal/schedule"
)

// ── 版次模块业务错误 ──

var (
	ErrEditionNotFound     = errors.New("版次不存在")
	ErrEditionCodeConflict = errors.New("版次编码已存在")
	ErrEditionCodeInvalid  = errors.New("版次编码格式无效")
	ErrEditionDateInvalid  = errors.New("版次日期无效")
	ErrEditionSeedFailed   = errors.New("模板任务生成失败")
	ErrEditionCloneFailed  = errors.New("版次复制失败")
)

// 版次编码约定：两位年 + 两位月 + "-" + 变体（A=GLR，B=SLR）
var editionCodeRe = regexp.MustCompile(`^\d{4}-[AB]$`)

// tasksLeadWeeks 任务筹备期默认提前周数（tasks_start_date 缺省值）
const tasksLeadWeeks = 5

// EditionService 版次业务接口
type EditionService interface {
	Create(ctx context.Context, req *dto.CreateEditionRequest, callerID string) (*dto.EditionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EditionResponse, error)
	List(ctx context.Context, includeArchived bool) ([]dto.EditionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEditionRequest, callerID string) (*dto.EditionResponse, error)
	Archive(ctx context.Context, id string, callerID string) (*dto.EditionResponse, error)
	Delete(ctx context.Context, id string) (bool, error)
	Duplicate(ctx context.Context, sourceID string, req *dto.DuplicateEditionRequest, callerID string) (*dto.EditionResponse, error)
	RefreshWeek(ctx context.Context, id string) (*dto.EditionResponse, error)
}

type editionService struct {
	repo           *repository.Repository
	catalog        *schedule.Catalog
	seedBestEffort bool
	logger         *zap.Logger
}

// NewEditionService 创建 EditionService 实例。
// seedBestEffort 控制模板任务生成的原子性策略：
// false（默认）整体成败；true 复刻旧系统"逐条记日志继续"的宽容行为。
func NewEditionService(repo *repository.Repository, catalog *schedule.Catalog, seedBestEffort bool, logger *zap.Logger) EditionService {
	return &editionService{repo: repo, catalog: catalog, seedBestEffort: seedBestEffort, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 创建版次；req.WithTemplate 为 true 时在同一事务内按模板目录生成任务，
// 并在生成后重算 current_week 落库。
func (s *editionService) Create(ctx context.Context, req *dto.CreateEditionRequest, callerID string) (*dto.EditionResponse, error) {
	if !editionCodeRe.MatchString(req.Code) {
		return nil, ErrEditionCodeInvalid
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrEditionDateInvalid
	}
	tasksStartDate := startDate.AddDate(0, 0, -tasksLeadWeeks*7)
	if req.TasksStartDate != "" {
		tasksStartDate, err = time.Parse("2006-01-02", req.TasksStartDate)
		if err != nil {
			return nil, ErrEditionDateInvalid
		}
	}

	if err := s.checkCodeFree(ctx, req.Code); err != nil {
		return nil, err
	}

	edition := &model.Edition{
		Code:           req.Code,
		TrainingType:   req.TrainingType,
		StartDate:      startDate,
		TasksStartDate: tasksStartDate,
		Status:         "active",
		CurrentWeek:    int(schedule.CurrentWeek(time.Now(), startDate)),
	}
	edition.CreatedBy = &callerID
	edition.UpdatedBy = &callerID

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Edition.Create(ctx, edition); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEditionCodeConflict
		}
		s.logger.Error("创建版次失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	if req.WithTemplate {
		kind := schedule.ParseTemplateKind(req.TemplateKind)
		if err := s.instantiateTasks(ctx, txRepo, edition, kind, callerID); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("模板任务生成失败，版次创建回滚",
				zap.String("code", edition.Code), zap.Error(err))
			return nil, ErrEditionSeedFailed
		}

		// 生成完成后重算当前周次并落库
		edition.CurrentWeek = int(schedule.CurrentWeek(time.Now(), edition.StartDate))
		if err := txRepo.Edition.Update(ctx, edition); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("回写当前周次失败", zap.String("code", edition.Code), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return s.toEditionResponse(edition, 0), nil
}

// instantiateTasks 任务实例化：遍历模板目录（按 Week -5 → 8 的自然顺序），
// 逐条计算到期日并落库。seedBestEffort 模式下单条失败仅记日志不中断。
func (s *editionService) instantiateTasks(ctx context.Context, txRepo *repository.Repository, edition *model.Edition, kind schedule.TemplateKind, callerID string) error {
	for _, tpl := range s.catalog.Tasks(kind) {
		due := schedule.DueDate(tpl.Week, edition.StartDate)
		task := &model.Task{
			EditionID:    edition.EditionID,
			TaskCode:     tpl.TaskCode,
			Week:         int(tpl.Week),
			Name:         tpl.Name,
			Duration:     tpl.Duration,
			TrainingType: tpl.TrainingType,
			Owner:        tpl.Owner,
			AssignedTo:   tpl.AssignedTo,
			Status:       model.TaskStatusNotStarted,
			Inflexible:   tpl.Inflexible,
			Notes:        tpl.Notes,
		}
		if !due.IsZero() {
			task.DueDate = &due
		}
		task.CreatedBy = &callerID
		task.UpdatedBy = &callerID

		if err := txRepo.Task.Create(ctx, task); err != nil {
			if s.seedBestEffort {
				s.logger.Warn("模板任务写入失败，按宽容策略跳过",
					zap.String("task_code", tpl.TaskCode), zap.Error(err))
				continue
			}
			return err
		}
	}
	return nil
}

// ────────────────────── GetByID ──────────────────────

func (s *editionService) GetByID(ctx context.Context, id string) (*dto.EditionResponse, error) {
	edition, err := s.repo.Edition.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditionNotFound
		}
		s.logger.Error("查询版次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	tasks, err := s.repo.Task.ListByEdition(ctx, id, nil)
	if err != nil {
		s.logger.Error("统计版次任务失败", zap.String("id", id), zap.Error(err))
		tasks = nil
	}

	return s.toEditionResponse(edition, len(tasks)), nil
}

// ────────────────────── List ──────────────────────

func (s *editionService) List(ctx context.Context, includeArchived bool) ([]dto.EditionResponse, error) {
	editions, err := s.repo.Edition.List(ctx, includeArchived)
	if err != nil {
		s.logger.Error("列出版次失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EditionResponse, 0, len(editions))
	for i := range editions {
		result = append(result, *s.toEditionResponse(&editions[i], 0))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 按字段合并更新。current_week 不随 start_date 变化自动重算，
// 仅在补丁显式包含时更新（历史行为：改开训日期不回溯平移任务）。
func (s *editionService) Update(ctx context.Context, id string, req *dto.UpdateEditionRequest, callerID string) (*dto.EditionResponse, error) {
	edition, err := s.repo.Edition.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditionNotFound
		}
		s.logger.Error("查询版次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Code != nil && *req.Code != edition.Code {
		if !editionCodeRe.MatchString(*req.Code) {
			return nil, ErrEditionCodeInvalid
		}
		if err := s.checkCodeFree(ctx, *req.Code); err != nil {
			return nil, err
		}
		edition.Code = *req.Code
	}
	if req.TrainingType != nil {
		edition.TrainingType = *req.TrainingType
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, ErrEditionDateInvalid
		}
		edition.StartDate = startDate
	}
	if req.TasksStartDate != nil {
		tasksStartDate, err := time.Parse("2006-01-02", *req.TasksStartDate)
		if err != nil {
			return nil, ErrEditionDateInvalid
		}
		edition.TasksStartDate = tasksStartDate
	}
	if req.Status != nil {
		edition.Status = *req.Status
	}
	if req.CurrentWeek != nil {
		edition.CurrentWeek = *req.CurrentWeek
	}

	edition.UpdatedBy = &callerID

	if err := s.repo.Edition.Update(ctx, edition); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEditionCodeConflict
		}
		s.logger.Error("更新版次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toEditionResponse(edition, 0), nil
}

// ────────────────────── Archive ──────────────────────

// Archive 归档版次：仅置 archived 标记，不触碰任务
func (s *editionService) Archive(ctx context.Context, id string, callerID string) (*dto.EditionResponse, error) {
	edition, err := s.repo.Edition.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditionNotFound
		}
		s.logger.Error("查询版次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	edition.Archived = true
	edition.UpdatedBy = &callerID

	if err := s.repo.Edition.Update(ctx, edition); err != nil {
		s.logger.Error("归档版次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toEditionResponse(edition, 0), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除版次并级联清除其全部任务。
// 版次不存在返回 (false, nil)（幂等语义，不视为错误）。
func (s *editionService) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return false, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	// 外键 ON DELETE CASCADE 之外再显式清一遍，Mock 存储同样得到级联语义
	if err := txRepo.Task.DeleteByEdition(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("级联删除任务失败", zap.String("id", id), zap.Error(err))
		return false, err
	}

	found, err := txRepo.Edition.Delete(ctx, id)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除版次失败", zap.String("id", id), zap.Error(err))
		return false, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return false, err
		}
	}

	return found, nil
}

// ────────────────────── Duplicate ──────────────────────

// Duplicate 版次复制：克隆源版次与其全部任务。
//
// 日期处理与任务实例化不同：不按周次重算，而是对每个日期字段整体平移
// dateShift = 新开训日 - 源开训日，精确保持任务间的相对间距。
// 克隆任务一律重置 status=Not Started、completion_date=null。
// 整个操作在单一事务内完成，失败即整体回滚。
func (s *editionService) Duplicate(ctx context.Context, sourceID string, req *dto.DuplicateEditionRequest, callerID string) (*dto.EditionResponse, error) {
	source, err := s.repo.Edition.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditionNotFound
		}
		s.logger.Error("查询源版次失败", zap.String("id", sourceID), zap.Error(err))
		return nil, err
	}

	if !editionCodeRe.MatchString(req.Code) {
		return nil, ErrEditionCodeInvalid
	}
	newStart, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrEditionDateInvalid
	}
	if err := s.checkCodeFree(ctx, req.Code); err != nil {
		return nil, err
	}

	trainingType := source.TrainingType
	if req.TrainingType != "" {
		trainingType = req.TrainingType
	}

	// 日期平移量（可为负）
	dateShift := newStart.Sub(source.StartDate)

	sourceTasks, err := s.repo.Task.ListByEdition(ctx, sourceID, nil)
	if err != nil {
		s.logger.Error("查询源版次任务失败", zap.String("id", sourceID), zap.Error(err))
		return nil, err
	}

	newEdition := &model.Edition{
		Code:           req.Code,
		TrainingType:   trainingType,
		StartDate:      newStart,
		TasksStartDate: source.TasksStartDate.Add(dateShift),
		Status:         "active",
		CurrentWeek:    int(schedule.CurrentWeek(time.Now(), newStart)),
	}
	newEdition.CreatedBy = &callerID
	newEdition.UpdatedBy = &callerID

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Edition.Create(ctx, newEdition); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEditionCodeConflict
		}
		s.logger.Error("创建目标版次失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	for i := range sourceTasks {
		clone := cloneTaskShifted(&sourceTasks[i], newEdition.EditionID, dateShift)
		clone.CreatedBy = &callerID
		clone.UpdatedBy = &callerID
		if err := txRepo.Task.Create(ctx, clone); err != nil {
			// 事务中任一写入失败则全部回滚，不留下无任务的孤儿版次
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("克隆任务写入失败，复制回滚",
				zap.String("task_code", clone.TaskCode), zap.Error(err))
			return nil, ErrEditionCloneFailed
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, ErrEditionCloneFailed
		}
	}

	s.logger.Info("版次复制完成",
		zap.String("source", source.Code),
		zap.String("target", newEdition.Code),
		zap.Int("tasks", len(sourceTasks)),
	)

	return s.toEditionResponse(newEdition, len(sourceTasks)), nil
}

// cloneTaskShifted 生成平移后的任务副本：
// 新 ID 由存储层生成；状态与完成时间一律重置；due_date 平移 dateShift。
func cloneTaskShifted(src *model.Task, editionID string, dateShift time.Duration) *model.Task {
	clone := &model.Task{
		EditionID:      editionID,
		TaskCode:       src.TaskCode,
		Week:           src.Week,
		Name:           src.Name,
		Duration:       src.Duration,
		TrainingType:   src.TrainingType,
		Owner:          src.Owner,
		AssignedTo:     src.AssignedTo,
		AssignedUserID: src.AssignedUserID,
		Status:         model.TaskStatusNotStarted,
		Inflexible:     src.Inflexible,
		CompletionDate: nil,
		Notes:          src.Notes,
	}
	if src.DueDate != nil {
		shifted := src.DueDate.Add(dateShift)
		clone.DueDate = &shifted
	}
	return clone
}

// ────────────────────── RefreshWeek ──────────────────────

// RefreshWeek 按"当前时刻"重算 current_week 并落库。
// current_week 是缓存值而非事实来源，始终可由 start_date 推导。
func (s *editionService) RefreshWeek(ctx context.Context, id string) (*dto.EditionResponse, error) {
	edition, err := s.repo.Edition.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditionNotFound
		}
		s.logger.Error("查询版次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	edition.CurrentWeek = int(schedule.CurrentWeek(time.Now(), edition.StartDate))

	if err := s.repo.Edition.Update(ctx, edition); err != nil {
		s.logger.Error("回写当前周次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toEditionResponse(edition, 0), nil
}

// ── 内部辅助方法 ──

// checkCodeFree 先查后插的编码唯一性检查；
// 并发竞态下以唯一索引为最终裁决（Create/Update 处翻译 ErrDuplicatedKey）。
func (s *editionService) checkCodeFree(ctx context.Context, code string) error {
	_, err := s.repo.Edition.GetByCode(ctx, code)
	if err == nil {
		return ErrEditionCodeConflict
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	s.logger.Error("检查版次编码失败", zap.String("code", code), zap.Error(err))
	return err
}

func (s *editionService) toEditionResponse(edition *model.Edition, taskCount int) *dto.EditionResponse {
	return &dto.EditionResponse{
		ID:             edition.EditionID,
		Code:           edition.Code,
		TrainingType:   edition.TrainingType,
		StartDate:      edition.StartDate.Format("2006-01-02"),
		TasksStartDate: edition.TasksStartDate.Format("2006-01-02"),
		Status:         edition.Status,
		CurrentWeek:    edition.CurrentWeek,
		Phase:          string(schedule.Classify(edition.StartDate, time.Now())),
		Archived:       edition.Archived,
		TaskCount:      taskCount,
		CreatedAt:      edition.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:      edition.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/edition_service.go
