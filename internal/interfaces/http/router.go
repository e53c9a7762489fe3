package http

import (
	"github.com/gofiber/fiber/v2"
)

// Roles con acceso a los reportes.
var reportRoles = []string{"admin", "manager"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reports       *ReportHandler
	JWTSecret     string
	GenerateLimit fiber.Handler // nil = sin límite
}

// Router registra las rutas de la API. Todo /reports exige JWT y rol admin|manager.
func Router(app *fiber.App, deps RouterDeps) {
	reports := app.Group("/reports", AuthMiddleware(deps.JWTSecret), RequireRole(reportRoles...))
	h := deps.Reports

	generate := []fiber.Handler{h.Generate}
	if deps.GenerateLimit != nil {
		generate = []fiber.Handler{deps.GenerateLimit, h.Generate}
	}
	reports.Post("/daily/generate", generate...)
	reports.Get("/daily/:date/pdf", h.DailyPDF)

	// Rutas literales antes de /:id.
	reports.Get("/list", h.List)
	reports.Get("/search", h.Search)
	reports.Get("/export-range", h.ExportRange)

	reports.Get("/:id/json", h.JSON)
	reports.Get("/:id/pdf", h.StoredPDF)
}
