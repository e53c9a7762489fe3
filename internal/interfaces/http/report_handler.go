package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resto-backoffice/internal/application/dto"
	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

// ReportPipeline lo que el handler usa del pipeline.
type ReportPipeline interface {
	Generate(ctx context.Context, shiftDate time.Time, sendEmail bool) (*appreport.GenerateResult, error)
	Preview(ctx context.Context, shiftDate time.Time) ([]byte, string, error)
}

// ReportQueries lo que el handler usa de las consultas.
type ReportQueries interface {
	List(ctx context.Context) ([]entity.ReportListItem, error)
	Get(ctx context.Context, id string) (*entity.CompiledReport, error)
	RenderStored(ctx context.Context, id string) ([]byte, string, error)
	Search(ctx context.Context, q string) ([]entity.ReportListItem, error)
	ExportRange(ctx context.Context, start, end time.Time) ([]byte, string, error)
}

// ReportHandler endpoints del reporte diario (protegido).
type ReportHandler struct {
	pipeline ReportPipeline
	queries  ReportQueries
	log      *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(pipeline ReportPipeline, queries ReportQueries, log *logger.Logger) *ReportHandler {
	return &ReportHandler{pipeline: pipeline, queries: queries, log: log}
}

// Generate godoc
// @Summary      Generar reporte diario
// @Description  Compila, guarda y opcionalmente envía por correo el reporte de la fecha.
// @Description  Con envío fallido responde 502 y el reporte queda guardado (reportId).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date       query  string  true   "Fecha del turno YYYY-MM-DD"
// @Param        sendEmail  query  bool    false  "Enviar el PDF por correo (default false)"
// @Success      200  {object}  dto.GenerateReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.GenerateReportResponse
// @Router       /reports/daily/generate [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	date, err := appreport.ParseShiftDate(c.Query("date"))
	if err != nil {
		return h.fail(c, err)
	}
	sendEmail := false
	if raw := c.Query("sendEmail"); raw != "" {
		if sendEmail, err = strconv.ParseBool(raw); err != nil {
			return h.fail(c, fmt.Errorf("%w: sendEmail debe ser true o false", domain.ErrValidation))
		}
	}

	res, err := h.pipeline.Generate(c.Context(), date, sendEmail)
	if err != nil {
		// El reporte quedó guardado; solo falló el envío.
		if res != nil && errors.Is(err, domain.ErrDelivery) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.GenerateReportResponse{
				OK: false, ReportID: res.ReportID, Date: res.Date, Emailed: false, Error: err.Error(),
			})
		}
		return h.fail(c, err)
	}
	return c.JSON(dto.GenerateReportResponse{OK: true, ReportID: res.ReportID, Date: res.Date, Emailed: res.Emailed})
}

// DailyPDF godoc
// @Summary      PDF en vivo de una fecha
// @Description  Compila y renderiza desde los libros actuales, sin persistir.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  path  string  true  "Fecha del turno YYYY-MM-DD"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /reports/daily/{date}/pdf [get]
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	date, err := appreport.ParseShiftDate(c.Params("date"))
	if err != nil {
		return h.fail(c, err)
	}
	doc, filename, err := h.pipeline.Preview(c.Context(), date)
	if err != nil {
		return h.fail(c, err)
	}
	return sendPDF(c, doc, filename)
}

// List godoc
// @Summary      Listar reportes guardados
// @Description  Fecha descendente.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReportListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /reports/list [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	items, err := h.queries.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ReportListResponse{OK: true, Reports: items})
}

// Search godoc
// @Summary      Buscar reportes
// @Description  Subcadena (sin distinguir mayúsculas) sobre la fecha o la varianza serializada.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  true  "Texto a buscar"
// @Success      200  {object}  dto.ReportListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /reports/search [get]
func (h *ReportHandler) Search(c *fiber.Ctx) error {
	items, err := h.queries.Search(c.Context(), c.Query("q"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ReportListResponse{OK: true, Reports: items})
}

// JSON godoc
// @Summary      Reporte guardado en JSON
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del reporte (UUID)"
// @Success      200  {object}  dto.ReportJSONResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /reports/{id}/json [get]
func (h *ReportHandler) JSON(c *fiber.Ctx) error {
	rep, err := h.queries.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ReportJSONResponse{OK: true, Report: rep})
}

// StoredPDF godoc
// @Summary      PDF de un reporte guardado
// @Description  Re-renderiza desde el JSON guardado, no desde los libros.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del reporte (UUID)"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /reports/{id}/pdf [get]
func (h *ReportHandler) StoredPDF(c *fiber.Ctx) error {
	doc, filename, err := h.queries.RenderStored(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return sendPDF(c, doc, filename)
}

// ExportRange godoc
// @Summary      Exportar rango en ZIP
// @Description  Un PDF por reporte guardado en [start, end] más summary.xlsx. Máximo 366 días.
// @Tags         reports
// @Security     Bearer
// @Produce      application/zip
// @Param        start  query  string  true  "Fecha inicial YYYY-MM-DD"
// @Param        end    query  string  true  "Fecha final YYYY-MM-DD (inclusive)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /reports/export-range [get]
func (h *ReportHandler) ExportRange(c *fiber.Ctx) error {
	start, err := appreport.ParseShiftDate(c.Query("start"))
	if err != nil {
		return h.fail(c, err)
	}
	end, err := appreport.ParseShiftDate(c.Query("end"))
	if err != nil {
		return h.fail(c, err)
	}
	data, filename, err := h.queries.ExportRange(c.Context(), start, end)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

func sendPDF(c *fiber.Ctx, doc []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(doc)
}

// fail traduce errores de dominio a HTTP con dto.ErrorResponse.
func (h *ReportHandler) fail(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrRunInProgress):
		status, code = fiber.StatusConflict, "RUN_IN_PROGRESS"
	case errors.Is(err, domain.ErrDelivery):
		status, code = fiber.StatusBadGateway, "DELIVERY_FAILED"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = fiber.StatusGatewayTimeout, "TIMEOUT"
	}

	ev := h.log.Info()
	if status >= fiber.StatusInternalServerError {
		ev = h.log.Error()
	}
	var stepErr *appreport.StepError
	if errors.As(err, &stepErr) {
		ev = ev.Str("step", stepErr.Step).Str("date", stepErr.Date)
	}
	ev.Err(err).Str("path", c.Path()).Int("status", status).Msg("solicitud de reporte fallida")

	return c.Status(status).JSON(dto.ErrorResponse{OK: false, Code: code, Message: err.Error()})
}
