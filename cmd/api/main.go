package main

import (
	"log"
	"time"

	"github.com/edusantana/academico/database"
	"github.com/edusantana/academico/handlers"
	"github.com/edusantana/academico/jobs"
	"github.com/edusantana/academico/notifications"
	"github.com/edusantana/academico/payments"
	"github.com/edusantana/academico/routes"
	"github.com/edusantana/academico/services"
	"github.com/edusantana/academico/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	ledger := store.NewGormStore(database.DB)
	gateway := payments.NewMercadoPagoService()

	reconciliationService := services.NewReconciliationService(ledger, ledger, ledger, ledger)
	webhookHandler := handlers.NewWebhookHandler(gateway, ledger)
	reconciliationHandler := handlers.NewReconciliationHandler(reconciliationService)

	c := cron.New()
	c.AddFunc("0 3 * * *", jobs.AuditEnrollments(reconciliationService))
	go c.Start()
	log.Println("✅ Cron job for enrollment audit scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Academico",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Academico API",
		})
	})

	routes.AuthRoutes(app)
	routes.OrderRoutes(app)
	routes.PaymentRoutes(app, webhookHandler)
	routes.ReconciliationRoutes(app, reconciliationHandler)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
