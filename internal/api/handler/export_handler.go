package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tecmeup123/task-manager-sub000/internal/service"
	"github.com/tecmeup123/task-manager-sub000/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportEditionTasks 导出版次任务清单（Excel）
// GET /api/v1/editions/:id/export/xlsx
func (h *ExportHandler) ExportEditionTasks(c *gin.Context) {
	editionID := c.Param("id")
	if editionID == "" {
		response.BadRequest(c, 10001, "版次ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportTasksXLSX(c.Request.Context(), editionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportEditionCalendar 导出版次到期日历（iCalendar）
// GET /api/v1/editions/:id/export/ics
func (h *ExportHandler) ExportEditionCalendar(c *gin.Context) {
	editionID := c.Param("id")
	if editionID == "" {
		response.BadRequest(c, 10001, "版次ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendarICS(c.Request.Context(), editionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeICS, filename, buf.Bytes())
}

// writeDownload 设置下载响应头并写出文件内容
func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportEditionNotFound):
		response.NotFound(c, 17001, "版次不存在")
	case errors.Is(err, service.ErrExportNoTasks):
		response.BadRequest(c, 17002, "版次下无任务可导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
