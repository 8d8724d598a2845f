package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tecmeup123/task-manager-sub000/internal/dto"
	"github.com/tecmeup123/task-manager-sub000/internal/service"
	"github.com/tecmeup123/task-manager-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock EditionService ──

type mockEditionService struct {
	createResult    *dto.EditionResponse
	createErr       error
	getResult       *dto.EditionResponse
	getErr          error
	listResult      []dto.EditionResponse
	listErr         error
	updateResult    *dto.EditionResponse
	updateErr       error
	archiveResult   *dto.EditionResponse
	archiveErr      error
	deleteResult    bool
	deleteErr       error
	duplicateResult *dto.EditionResponse
	duplicateErr    error
	refreshResult   *dto.EditionResponse
	refreshErr      error
}

func (m *mockEditionService) Create(_ context.Context, _ *dto.CreateEditionRequest, _ string) (*dto.EditionResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockEditionService) GetByID(_ context.Context, _ string) (*dto.EditionResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockEditionService) List(_ context.Context, _ bool) ([]dto.EditionResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockEditionService) Update(_ context.Context, _ string, _ *dto.UpdateEditionRequest, _ string) (*dto.EditionResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockEditionService) Archive(_ context.Context, _ string, _ string) (*dto.EditionResponse, error) {
	return m.archiveResult, m.archiveErr
}
func (m *mockEditionService) Delete(_ context.Context, _ string) (bool, error) {
	return m.deleteResult, m.deleteErr
}
func (m *mockEditionService) Duplicate(_ context.Context, _ string, _ *dto.DuplicateEditionRequest, _ string) (*dto.EditionResponse, error) {
	return m.duplicateResult, m.duplicateErr
}
func (m *mockEditionService) RefreshWeek(_ context.Context, _ string) (*dto.EditionResponse, error) {
	return m.refreshResult, m.refreshErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	return gin.New(), w
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("jti", "test-jti")
	c.Set("token_expires_at", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// EditionHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEditionHandler_ListEditions_Success(t *testing.T) {
	mock := &mockEditionService{
		listResult: []dto.EditionResponse{
			{ID: "ed-001", Code: "2405-A"},
			{ID: "ed-002", Code: "2409-B"},
		},
	}
	h := NewEditionHandler(mock)

	r, w := setupGin()
	req := httptest.NewRequest("GET", "/editions", nil)

	r.GET("/editions", h.ListEditions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestEditionHandler_GetEdition_NotFound(t *testing.T) {
	mock := &mockEditionService{getErr: service.ErrEditionNotFound}
	h := NewEditionHandler(mock)

	r, w := setupGin()
	req := httptest.NewRequest("GET", "/editions/missing", nil)

	r.GET("/editions/:id", h.GetEdition)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13001 {
		t.Errorf("expected error code 13001, got %d", resp.Code)
	}
}

func TestEditionHandler_CreateEdition_Success(t *testing.T) {
	mock := &mockEditionService{
		createResult: &dto.EditionResponse{ID: "ed-001", Code: "2405-A"},
	}
	h := NewEditionHandler(mock)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/editions", jsonBody(dto.CreateEditionRequest{
		Code:         "2405-A",
		TrainingType: "GLR",
		StartDate:    "2024-05-20",
	}))
	req.Header.Set("Content-Type", "application/json")

	r.POST("/editions", func(c *gin.Context) {
		setAuth(c)
		h.CreateEdition(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestEditionHandler_CreateEdition_BadJSON(t *testing.T) {
	mock := &mockEditionService{}
	h := NewEditionHandler(mock)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/editions", bytes.NewReader([]byte("bad")))
	req.Header.Set("Content-Type", "application/json")

	r.POST("/editions", func(c *gin.Context) {
		setAuth(c)
		h.CreateEdition(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected error code 10001, got %d", resp.Code)
	}
}

func TestEditionHandler_CreateEdition_Unauthenticated(t *testing.T) {
	// 中间件未注入 user_id 时必须拒绝，而不是以空操作人落库
	mock := &mockEditionService{}
	h := NewEditionHandler(mock)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/editions", jsonBody(dto.CreateEditionRequest{
		Code:         "2405-A",
		TrainingType: "GLR",
		StartDate:    "2024-05-20",
	}))
	req.Header.Set("Content-Type", "application/json")

	r.POST("/editions", h.CreateEdition)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10002 {
		t.Errorf("expected error code 10002, got %d", resp.Code)
	}
}

func TestEditionHandler_DuplicateEdition_CodeConflict(t *testing.T) {
	mock := &mockEditionService{duplicateErr: service.ErrEditionCodeConflict}
	h := NewEditionHandler(mock)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/editions/ed-001/duplicate", jsonBody(dto.DuplicateEditionRequest{
		Code:      "2409-B",
		StartDate: "2024-09-02",
	}))
	req.Header.Set("Content-Type", "application/json")

	r.POST("/editions/:id/duplicate", func(c *gin.Context) {
		setAuth(c)
		h.DuplicateEdition(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13002 {
		t.Errorf("expected error code 13002, got %d", resp.Code)
	}
}

func TestEditionHandler_DeleteEdition_Idempotent(t *testing.T) {
	// 删除不存在的版次返回 200 且 deleted=false，不是 404
	mock := &mockEditionService{deleteResult: false}
	h := NewEditionHandler(mock)

	r, w := setupGin()
	req := httptest.NewRequest("DELETE", "/editions/missing", nil)

	r.DELETE("/editions/:id", func(c *gin.Context) {
		setAuth(c)
		h.DeleteEdition(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body.Data.Deleted {
		t.Error("expected deleted=false")
	}
}

func TestEditionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrEditionNotFound, 404, 13001},
		{"CodeConflict", service.ErrEditionCodeConflict, 409, 13002},
		{"CodeInvalid", service.ErrEditionCodeInvalid, 400, 13003},
		{"DateInvalid", service.ErrEditionDateInvalid, 400, 13004},
		{"SeedFailed", service.ErrEditionSeedFailed, 500, 13005},
		{"CloneFailed", service.ErrEditionCloneFailed, 500, 13006},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockEditionService{getErr: tt.err}
			h := NewEditionHandler(mock)

			r, w := setupGin()
			req := httptest.NewRequest("GET", "/editions/ed-001", nil)

			r.GET("/editions/:id", h.GetEdition)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}
