package dto

// ── 版次模块 DTO ──

// CreateEditionRequest 创建版次请求
// with_template 为 true 时按模板目录生成任务清单
type CreateEditionRequest struct {
	Code           string `json:"code"             binding:"required,min=4,max=20"` // YYMM-A | YYMM-B
	TrainingType   string `json:"training_type"    binding:"required,oneof=GLR SLR"`
	StartDate      string `json:"start_date"       binding:"required"` // "2024-05-20"
	TasksStartDate string `json:"tasks_start_date"`                    // 缺省为 start_date 前 5 周
	WithTemplate   bool   `json:"with_template"`
	TemplateKind   string `json:"template_kind"    binding:"omitempty,oneof=default glr slr"`
}

// UpdateEditionRequest 更新版次请求（按字段合并，不自动重算 current_week）
type UpdateEditionRequest struct {
	Code           *string `json:"code"             binding:"omitempty,min=4,max=20"`
	TrainingType   *string `json:"training_type"    binding:"omitempty,oneof=GLR SLR"`
	StartDate      *string `json:"start_date"`
	TasksStartDate *string `json:"tasks_start_date"`
	Status         *string `json:"status"`
	CurrentWeek    *int    `json:"current_week"     binding:"omitempty,min=-5,max=8"`
}

// DuplicateEditionRequest 复制版次请求
type DuplicateEditionRequest struct {
	Code         string `json:"code"          binding:"required,min=4,max=20"`
	StartDate    string `json:"start_date"    binding:"required"`
	TrainingType string `json:"training_type" binding:"omitempty,oneof=GLR SLR"` // 缺省沿用源版次
}

// EditionResponse 版次信息响应
type EditionResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	TrainingType   string `json:"training_type"`
	StartDate      string `json:"start_date"`
	TasksStartDate string `json:"tasks_start_date"`
	Status         string `json:"status"`
	CurrentWeek    int    `json:"current_week"`
	Phase          string `json:"phase"` // upcoming | active | finished（响应时刻推算）
	Archived       bool   `json:"archived"`
	TaskCount      int    `json:"task_count,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
