package schedule

import "strings"

// ── 任务模板目录 ──
//
// 版次创建时的种子数据：按 Week -5 → Week 8 的自然顺序给出每周的模板任务。
// 目录是只读配置，本身无身份标识；作为可注入对象建模（而非包级单例），
// 便于测试替换备用目录。

// TemplateKind 模板类型
type TemplateKind string

const (
	TemplateDefault TemplateKind = "default"
	TemplateGLR     TemplateKind = "glr"
	TemplateSLR     TemplateKind = "slr"
)

// ParseTemplateKind 解析模板类型字符串，未知值回退到 default
func ParseTemplateKind(s string) TemplateKind {
	switch TemplateKind(strings.ToLower(strings.TrimSpace(s))) {
	case TemplateGLR:
		return TemplateGLR
	case TemplateSLR:
		return TemplateSLR
	default:
		return TemplateDefault
	}
}

// TemplateTask 模板任务原型。
// 与 Task 同构，但不含 id / edition_id / due_date（创建时计算）、
// status（恒为 Not Started）与 completion_date（恒为空）。
type TemplateTask struct {
	TaskCode     string
	Week         Week
	Name         string
	Duration     string // h:mm:ss 自由文本
	TrainingType string // GLR | SLR | ALL（ALL 仅用于模板）
	AssignedTo   string
	Owner        string
	Inflexible   bool
	Notes        string
}

// Catalog 模板目录：TemplateKind → 按周有序的模板任务集
type Catalog struct {
	tasks []TemplateTask
}

// Tasks 返回指定模板类型的任务序列（default 集 + GLR/SLR 定制覆盖）。
// 返回的是副本，调用方可随意修改。
func (c *Catalog) Tasks(kind TemplateKind) []TemplateTask {
	out := make([]TemplateTask, len(c.tasks))
	copy(out, c.tasks)
	if kind == TemplateDefault {
		return out
	}
	for i := range out {
		applyOverride(&out[i], kind)
	}
	return out
}

// Len 模板任务总数
func (c *Catalog) Len() int { return len(c.tasks) }

// applyOverride 按 (周次区间, 编码后缀) 规则套用 GLR/SLR 定制。
// 规则沿用既有系统：第 2-4 周所有 T01 任务替换为类型专属的授课模块，
// 第 1 周 T01 替换为类型专属的开训环节。
func applyOverride(t *TemplateTask, kind TemplateKind) {
	switch {
	case t.Week == 1 && strings.HasSuffix(t.TaskCode, "T01"):
		if kind == TemplateGLR {
			t.Name = "Welcome session (GLR) - trainer led kick-off"
			t.Duration = "2:00:00"
			t.TrainingType = "GLR"
		} else {
			t.Name = "Welcome session (SLR) - self-paced onboarding"
			t.Duration = "1:00:00"
			t.TrainingType = "SLR"
		}
	case t.Week >= 2 && t.Week <= 4 && strings.HasSuffix(t.TaskCode, "T01"):
		if kind == TemplateGLR {
			t.Name = "Deliver instructor-led module " + t.Week.Code()
			t.Duration = "4:00:00"
			t.TrainingType = "GLR"
		} else {
			t.Name = "Publish self-learning module " + t.Week.Code()
			t.Duration = "2:30:00"
			t.TrainingType = "SLR"
		}
	}
}

// DefaultCatalog 既有系统的标准模板目录。
// 第 0 周的条目是刻意保留的：0 只作为模板标签存在，周次推算永不返回 0。
func DefaultCatalog() *Catalog {
	return &Catalog{tasks: []TemplateTask{
		// Week -5 —— 启动筹备
		{TaskCode: "WM5T01", Week: -5, Name: "Create edition in learning platform", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead", Inflexible: true},
		{TaskCode: "WM5T02", Week: -5, Name: "Confirm trainer availability", Duration: "0:30:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Resourcing"},
		{TaskCode: "WM5T03", Week: -5, Name: "Request classroom and equipment", Duration: "0:30:00", TrainingType: "ALL", AssignedTo: "Facilities", Owner: "Training Lead"},
		// Week -4 —— 名单与物料
		{TaskCode: "WM4T01", Week: -4, Name: "Collect participant list from HR", Duration: "0:45:00", TrainingType: "ALL", AssignedTo: "HR", Owner: "Training Lead"},
		{TaskCode: "WM4T02", Week: -4, Name: "Order training materials", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Procurement"},
		// Week -3 —— 账号开通
		{TaskCode: "WM3T01", Week: -3, Name: "Create participant accounts", Duration: "2:00:00", TrainingType: "ALL", AssignedTo: "IT", Owner: "IT", Inflexible: true},
		{TaskCode: "WM3T02", Week: -3, Name: "Assign mentors to participants", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
		// Week -2 —— 邀请发送
		{TaskCode: "WM2T01", Week: -2, Name: "Send welcome e-mail with agenda", Duration: "0:30:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
		{TaskCode: "WM2T02", Week: -2, Name: "Schedule calendar invites for all sessions", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
		// Week -1 —— 最终检查
		{TaskCode: "WM1T01", Week: -1, Name: "Verify platform access for all participants", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "IT", Owner: "IT"},
		{TaskCode: "WM1T02", Week: -1, Name: "Final trainer briefing", Duration: "0:45:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
		// Week 0 —— 仅模板标签（周次推算不会产生第 0 周）
		{TaskCode: "W0T01", Week: 0, Name: "Pre-start checklist sign-off", Duration: "0:30:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead", Notes: "Gate before the edition goes live"},
		// Week 1 —— 开训
		{TaskCode: "W1T01", Week: 1, Name: "Welcome session", Duration: "1:30:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer", Inflexible: true},
		{TaskCode: "W1T02", Week: 1, Name: "Collect signed attendance sheets", Duration: "0:15:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Training Lead"},
		// Week 2-4 —— 授课模块（T01 依类型定制）
		{TaskCode: "W2T01", Week: 2, Name: "Deliver module W2", Duration: "3:00:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer"},
		{TaskCode: "W2T02", Week: 2, Name: "Publish week 2 exercises", Duration: "0:30:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer"},
		{TaskCode: "W3T01", Week: 3, Name: "Deliver module W3", Duration: "3:00:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer"},
		{TaskCode: "W3T02", Week: 3, Name: "Mid-training pulse survey", Duration: "0:30:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
		{TaskCode: "W4T01", Week: 4, Name: "Deliver module W4", Duration: "3:00:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer"},
		// Week 5 —— 实践
		{TaskCode: "W5T01", Week: 5, Name: "Start practice assignment", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer"},
		{TaskCode: "W5T02", Week: 5, Name: "Plan individual coaching slots", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Trainer"},
		// Week 6 —— 评审
		{TaskCode: "W6T01", Week: 6, Name: "Review practice assignments", Duration: "4:00:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer"},
		// Week 7 —— 考核
		{TaskCode: "W7T01", Week: 7, Name: "Schedule final assessments", Duration: "0:45:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead", Inflexible: true},
		{TaskCode: "W7T02", Week: 7, Name: "Conduct final assessments", Duration: "6:00:00", TrainingType: "ALL", AssignedTo: "Trainer", Owner: "Trainer"},
		// Week 8 —— 收尾
		{TaskCode: "W8T01", Week: 8, Name: "Issue certificates", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
		{TaskCode: "W8T02", Week: 8, Name: "Send evaluation survey", Duration: "0:30:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
		{TaskCode: "W8T03", Week: 8, Name: "Archive edition materials", Duration: "1:00:00", TrainingType: "ALL", AssignedTo: "Training Lead", Owner: "Training Lead"},
	}}
}

// NewCatalog 从给定模板任务集构造目录（主要供测试注入备用目录）
func NewCatalog(tasks []TemplateTask) *Catalog {
	cp := make([]TemplateTask, len(tasks))
	copy(cp, tasks)
	return &Catalog{tasks: cp}
}
