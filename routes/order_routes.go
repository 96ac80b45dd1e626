package routes

import (
	"github.com/edusantana/academico/handlers"
	"github.com/edusantana/academico/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/disciplines", handlers.ListDisciplines)

	orders := api.Group("/orders", middleware.Protected())
	orders.Post("/checkout", handlers.CreateCheckout)
	orders.Get("/mine", handlers.GetMyOrders)

	enrollments := api.Group("/enrollments", middleware.Protected())
	enrollments.Get("/mine", handlers.GetMyEnrollments)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/orders", handlers.AdminGetOrders)
}
