package dto

// ── 任务模块 DTO ──
//
// week 字段对外统一输出 "Week N" 标签；输入兼容 "N" 与 "Week N" 两种形式，
// 在 Service 层经 schedule.ParseWeek 归一化。

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	EditionID      string  `json:"edition_id"       binding:"required,uuid"`
	TaskCode       string  `json:"task_code"`
	Week           string  `json:"week"             binding:"required"`
	Name           string  `json:"name"             binding:"required,max=300"`
	Duration       string  `json:"duration"`
	DueDate        string  `json:"due_date"` // "2024-05-13"；缺省时按周次推算
	TrainingType   string  `json:"training_type"    binding:"omitempty,oneof=GLR SLR ALL"`
	Owner          string  `json:"owner"`
	AssignedTo     string  `json:"assigned_to"`
	AssignedUserID *string `json:"assigned_user_id" binding:"omitempty,uuid"`
	Inflexible     bool    `json:"inflexible"`
	Notes          string  `json:"notes"`
}

// UpdateTaskRequest 更新任务请求。
// status 切到 Done 且未显式给出 completion_date 时由系统补打完成时间；
// completion_date 传空串表示显式清除。
type UpdateTaskRequest struct {
	TaskCode       *string `json:"task_code"`
	Week           *string `json:"week"`
	Name           *string `json:"name"             binding:"omitempty,max=300"`
	Duration       *string `json:"duration"`
	DueDate        *string `json:"due_date"`
	TrainingType   *string `json:"training_type"    binding:"omitempty,oneof=GLR SLR ALL"`
	Owner          *string `json:"owner"`
	AssignedTo     *string `json:"assigned_to"`
	AssignedUserID *string `json:"assigned_user_id"`
	Status         *string `json:"status"`
	Inflexible     *bool   `json:"inflexible"`
	CompletionDate *string `json:"completion_date"`
	Notes          *string `json:"notes"`
}

// TaskResponse 任务信息响应
type TaskResponse struct {
	ID             string `json:"id"`
	EditionID      string `json:"edition_id"`
	TaskCode       string `json:"task_code"`
	Week           string `json:"week"` // "Week -5".."Week 8"
	WeekNumber     int    `json:"week_number"`
	Name           string `json:"name"`
	Duration       string `json:"duration,omitempty"`
	DueDate        string `json:"due_date,omitempty"`
	TrainingType   string `json:"training_type"`
	Owner          string `json:"owner,omitempty"`
	AssignedTo     string `json:"assigned_to,omitempty"`
	AssignedUserID string `json:"assigned_user_id,omitempty"`
	Status         string `json:"status"`
	Inflexible     bool   `json:"inflexible"`
	CompletionDate string `json:"completion_date,omitempty"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// TaskAuditLogResponse 任务审计记录响应
type TaskAuditLogResponse struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	EditionID   string `json:"edition_id"`
	Action      string `json:"action"`
	BeforeState string `json:"before_state,omitempty"`
	AfterState  string `json:"after_state,omitempty"`
	OperatorID  string `json:"operator_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}
