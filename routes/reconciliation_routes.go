package routes

import (
	"github.com/edusantana/academico/handlers"
	"github.com/edusantana/academico/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReconciliationRoutes(app *fiber.App, reconciliation *handlers.ReconciliationHandler) {
	api := app.Group("/api/v1")

	staff := api.Group("/reconciliation", middleware.Protected(), middleware.StaffRequired())
	staff.Get("/verify", reconciliation.VerifyEnrollments)
	staff.Get("/sync", reconciliation.SyncEnrollments)
	staff.Post("/sync", reconciliation.SyncEnrollments)
}
