package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tecmeup123/task-manager-sub000/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockEditionRepo, *mockTaskRepo) {
	repo, editionRepo, taskRepo := newTestRepo()
	svc := NewExportService(repo, zap.NewNop())

	editionRepo.editions["ed-001"] = &model.Edition{
		EditionID:    "ed-001",
		Code:         "2405-A",
		TrainingType: "GLR",
		StartDate:    time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
	}
	return svc, editionRepo, taskRepo
}

// ── ExportTasksXLSX 测试 ──

func TestExportService_ExportTasksXLSX_EditionNotFound(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.ExportTasksXLSX(context.Background(), "nonexistent")
	if !errors.Is(err, ErrExportEditionNotFound) {
		t.Errorf("期望 ErrExportEditionNotFound，实际: %v", err)
	}
}

func TestExportService_ExportTasksXLSX_NoTasks(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.ExportTasksXLSX(context.Background(), "ed-001")
	if !errors.Is(err, ErrExportNoTasks) {
		t.Errorf("期望 ErrExportNoTasks，实际: %v", err)
	}
}

func TestExportService_ExportTasksXLSX_Success(t *testing.T) {
	svc, _, taskRepo := setupTestExportService()

	due := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	taskRepo.tasks["task-001"] = &model.Task{
		TaskID: "task-001", EditionID: "ed-001", TaskCode: "W1T01", Week: 1,
		Name: "Welcome session", Duration: "1:30:00", TrainingType: "GLR",
		Owner: "Trainer", Status: model.TaskStatusNotStarted, DueDate: &due,
	}
	taskRepo.tasks["task-002"] = &model.Task{
		TaskID: "task-002", EditionID: "ed-001", TaskCode: "WM5T01", Week: -5,
		Name: "Create edition in learning platform", TrainingType: "ALL",
		Status: model.TaskStatusDone,
	}

	buf, filename, err := svc.ExportTasksXLSX(context.Background(), "ed-001")
	if err != nil {
		t.Fatalf("ExportTasksXLSX 应成功: %v", err)
	}
	if filename != "edition-2405-A-tasks.xlsx" {
		t.Errorf("期望文件名=edition-2405-A-tasks.xlsx，实际=%s", filename)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出内容不应为空")
	}
	// xlsx 以 zip 容器开头
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Errorf("导出内容应为 xlsx（PK 开头），实际前两字节=%v", head)
	}
}

// ── ExportCalendarICS 测试 ──

func TestExportService_ExportCalendarICS_Success(t *testing.T) {
	svc, _, taskRepo := setupTestExportService()

	due := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	taskRepo.tasks["task-001"] = &model.Task{
		TaskID: "task-001", EditionID: "ed-001", TaskCode: "W1T01", Week: 1,
		Name: "Welcome session", Status: model.TaskStatusNotStarted, DueDate: &due,
	}
	// 无到期日的任务不进日历
	taskRepo.tasks["task-002"] = &model.Task{
		TaskID: "task-002", EditionID: "ed-001", TaskCode: "W0T01", Week: 0,
		Name: "Pre-start checklist sign-off", Status: model.TaskStatusNotStarted,
	}

	buf, filename, err := svc.ExportCalendarICS(context.Background(), "ed-001")
	if err != nil {
		t.Fatalf("ExportCalendarICS 应成功: %v", err)
	}
	if filename != "edition-2405-A.ics" {
		t.Errorf("期望文件名=edition-2405-A.ics，实际=%s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("导出内容应为 iCalendar 格式")
	}
	if strings.Count(content, "BEGIN:VEVENT") != 1 {
		t.Errorf("仅带到期日的任务进日历，期望 1 个 VEVENT，实际=%d", strings.Count(content, "BEGIN:VEVENT"))
	}
	if !strings.Contains(content, "[W1T01] Welcome session") {
		t.Error("事件摘要应包含任务编码与名称")
	}
	if !strings.Contains(content, "task-001@tecmeup") {
		t.Error("事件 UID 应由任务 ID 派生")
	}
}

func TestExportService_ExportCalendarICS_EditionNotFound(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.ExportCalendarICS(context.Background(), "nonexistent")
	if !errors.Is(err, ErrExportEditionNotFound) {
		t.Errorf("期望 ErrExportEditionNotFound，实际: %v", err)
	}
}
