package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/internal/service"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
	"github.com/noah-isme/clima-laboral-api/pkg/response"
)

type exportService interface {
	Spreadsheet(ctx context.Context, format models.ReportFormat) (*service.ExportFile, error)
	AreaReport(ctx context.Context, area models.Area) (*service.ExportFile, error)
}

// ExportHandler serves synchronous downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Excel godoc
// @Summary Download every submission as a workbook
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /admin/exports/excel [get]
func (h *ExportHandler) Excel(c *gin.Context) {
	h.spreadsheet(c, models.ReportFormatXLSX)
}

// CSV godoc
// @Summary Download every submission as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /admin/exports/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	h.spreadsheet(c, models.ReportFormatCSV)
}

func (h *ExportHandler) spreadsheet(c *gin.Context, format models.ReportFormat) {
	file, err := h.service.Spreadsheet(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// PDF godoc
// @Summary Download the area report as PDF
// @Tags Exports
// @Produce application/pdf
// @Param area query string false "Area name, GENERAL when blank"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/exports/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	raw := c.Query("area")
	area, ok := models.ParseAreaFilter(raw)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown area %q", raw)))
		return
	}
	file, err := h.service.AreaReport(c.Request.Context(), area)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
