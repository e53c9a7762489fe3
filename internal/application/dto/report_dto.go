package dto

import "github.com/jhoicas/resto-backoffice/internal/domain/entity"

// GenerateReportResponse respuesta de POST /reports/daily/generate.
type GenerateReportResponse struct {
	OK       bool   `json:"ok"`
	ReportID string `json:"reportId"`
	Date     string `json:"date"`
	Emailed  bool   `json:"emailed"`
	// Error solo se informa cuando el reporte quedó persistido pero el envío falló.
	Error string `json:"error,omitempty"`
}

// ReportListResponse respuesta de /reports/list y /reports/search.
type ReportListResponse struct {
	OK      bool                    `json:"ok"`
	Reports []entity.ReportListItem `json:"reports"`
}

// ReportJSONResponse respuesta de GET /reports/:id/json.
type ReportJSONResponse struct {
	OK     bool                   `json:"ok"`
	Report *entity.CompiledReport `json:"report"`
}
