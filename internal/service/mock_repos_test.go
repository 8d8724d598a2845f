package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/tecmeup123/task-manager-sub000/internal/model"
)

// ── Mock EditionRepository ──

type mockEditionRepo struct {
	editions map[string]*model.Edition
}

func newMockEditionRepo() *mockEditionRepo {
	return &mockEditionRepo{editions: make(map[string]*model.Edition)}
}

func (m *mockEditionRepo) Create(_ context.Context, edition *model.Edition) error {
	// 模拟唯一索引：编码冲突返回已翻译的 gorm.ErrDuplicatedKey
	for _, e := range m.editions {
		if e.Code == edition.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if edition.EditionID == "" {
		edition.EditionID = "ed-" + edition.Code
	}
	if edition.CreatedAt.IsZero() {
		edition.CreatedAt = time.Now()
		edition.UpdatedAt = edition.CreatedAt
	}
	m.editions[edition.EditionID] = edition
	return nil
}

func (m *mockEditionRepo) GetByID(_ context.Context, id string) (*model.Edition, error) {
	if e, ok := m.editions[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEditionRepo) GetByCode(_ context.Context, code string) (*model.Edition, error) {
	for _, e := range m.editions {
		if e.Code == code {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEditionRepo) List(_ context.Context, includeArchived bool) ([]model.Edition, error) {
	var result []model.Edition
	for _, e := range m.editions {
		if !includeArchived && e.Archived {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}

func (m *mockEditionRepo) Update(_ context.Context, edition *model.Edition) error {
	for id, e := range m.editions {
		if id != edition.EditionID && e.Code == edition.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	m.editions[edition.EditionID] = edition
	return nil
}

func (m *mockEditionRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.editions[id]; !ok {
		return false, nil
	}
	delete(m.editions, id)
	return true, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks   map[string]*model.Task
	nextID  int
	failing map[string]bool // task_code → 写入时报错（模拟局部失败）
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task), failing: make(map[string]bool)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if m.failing[task.TaskCode] {
		return fmt.Errorf("模拟写入失败: %s", task.TaskCode)
	}
	if task.TaskID == "" {
		// 跳过已被测试用例预置占用的 ID，模拟真实主键生成器不会冲突
		for {
			m.nextID++
			id := fmt.Sprintf("task-%03d", m.nextID)
			if _, exists := m.tasks[id]; !exists {
				task.TaskID = id
				break
			}
		}
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
		task.UpdatedAt = task.CreatedAt
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListByEdition(_ context.Context, editionID string, week *int) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.EditionID != editionID {
			continue
		}
		if week != nil && t.Week != *week {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Week != result[j].Week {
			return result[i].Week < result[j].Week
		}
		return result[i].TaskCode < result[j].TaskCode
	})
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

func (m *mockTaskRepo) DeleteByEdition(_ context.Context, editionID string) error {
	for id, t := range m.tasks {
		if t.EditionID == editionID {
			delete(m.tasks, id)
		}
	}
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	nextID        int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		m.nextID++
		n.NotificationID = fmt.Sprintf("ntf-%03d", m.nextID)
	}
	m.notifications[n.NotificationID] = n
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	entries []model.TaskAuditLog
	nextID  int
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.TaskAuditLog) error {
	if entry.AuditLogID == "" {
		m.nextID++
		entry.AuditLogID = fmt.Sprintf("audit-%03d", m.nextID)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditLogRepo) ListByEdition(_ context.Context, editionID string) ([]model.TaskAuditLog, error) {
	var result []model.TaskAuditLog
	for _, e := range m.entries {
		if e.EditionID == editionID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockAuditLogRepo) ListByTask(_ context.Context, taskID string) ([]model.TaskAuditLog, error) {
	var result []model.TaskAuditLog
	for _, e := range m.entries {
		if e.TaskID == taskID {
			result = append(result, e)
		}
	}
	return result, nil
}
