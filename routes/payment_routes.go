package routes

import (
	"github.com/edusantana/academico/handlers"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, webhook *handlers.WebhookHandler) {
	api := app.Group("/api/v1")

	// The provider calls this with ?topic=payment&id=<txn>. No auth; the
	// handler trusts nothing in the request and re-verifies with the provider.
	api.Post("/payments/webhook", webhook.HandlePaymentNotification)
}
