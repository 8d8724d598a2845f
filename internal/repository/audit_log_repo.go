package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tecmeup123/task-manager-sub000/internal/model"
)

// AuditLogRepository 任务审计数据访问接口
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.TaskAuditLog) error
	ListByEdition(ctx context.Context, editionID string) ([]model.TaskAuditLog, error)
	ListByTask(ctx context.Context, taskID string) ([]model.TaskAuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *model.TaskAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) ListByEdition(ctx context.Context, editionID string) ([]model.TaskAuditLog, error) {
	var list []model.TaskAuditLog
	err := r.db.WithContext(ctx).
		Where("edition_id = ?", editionID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *auditLogRepo) ListByTask(ctx context.Context, taskID string) ([]model.TaskAuditLog, error) {
	var list []model.TaskAuditLog
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
