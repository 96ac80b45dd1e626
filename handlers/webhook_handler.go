package handlers

import (
	"fmt"
	"log"

	"github.com/edusantana/academico/models"
	"github.com/edusantana/academico/notifications"
	"github.com/edusantana/academico/payments"
	"github.com/edusantana/academico/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WebhookHandler ingests asynchronous payment notifications. The
// notification itself is only a hint that something happened; the payment is
// always re-fetched from the provider before any state changes.
type WebhookHandler struct {
	Gateway payments.Gateway
	Ledger  store.PaymentApplier
}

func NewWebhookHandler(gateway payments.Gateway, ledger store.PaymentApplier) *WebhookHandler {
	return &WebhookHandler{Gateway: gateway, Ledger: ledger}
}

// HandlePaymentNotification processes one provider notification. Persistence
// failures are acknowledged with 200 anyway so the provider does not retry
// forever against a broken write path; those failures go to the operator
// channel instead. Verification failures return 500, since nothing was
// mutated and the provider's redelivery is the retry mechanism.
func (h *WebhookHandler) HandlePaymentNotification(c *fiber.Ctx) error {
	topic := c.Query("topic")
	transactionID := c.Query("id")

	if topic != "payment" || transactionID == "" {
		log.Printf("Ignoring webhook notification with topic %q, id %q", topic, transactionID)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ignored"})
	}

	ctx := store.WithPrincipal(c.UserContext(), store.SystemPrincipal())

	payment, err := h.Gateway.GetPayment(ctx, transactionID)
	if err != nil {
		log.Printf("🔥 Failed to verify payment %s with provider: %v", transactionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment verification unavailable"})
	}

	if payment.Status != payments.PaymentStatusApproved {
		log.Printf("Payment %s verified as %q, no action taken", transactionID, payment.Status)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "received"})
	}

	if payment.ExternalReference == "" {
		log.Printf("🔥 Approved payment %s carries no order reference, skipping", transactionID)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "received"})
	}

	orderID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		log.Printf("🔥 Approved payment %s carries malformed order reference %q, skipping", transactionID, payment.ExternalReference)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "received"})
	}

	record := &models.PaymentRecord{
		OrderID:       orderID,
		ProviderTxnID: transactionID,
		Amount:        payment.TransactionAmount,
		Status:        payment.Status,
	}
	if payment.DateApproved != nil {
		record.ConfirmedAt = *payment.DateApproved
	}

	applied, err := h.Ledger.ApplyVerifiedPayment(ctx, orderID, record)
	if err != nil {
		log.Printf("🔥 CRITICAL: Failed to apply verified payment %s to order %s: %v", transactionID, orderID, err)
		go notifications.AlertOperator(
			"Payment confirmation failed to persist",
			fmt.Sprintf("<h1>Payment persistence failure</h1><p>Order %s, transaction %s was verified as approved but could not be applied: %v</p>", orderID, transactionID, err),
		)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "received"})
	}

	if !applied.OrderMarkedPaid && !applied.RecordCreated {
		log.Printf("Payment %s for order %s already applied", transactionID, orderID)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "already processed"})
	}

	log.Printf("✅ Payment %s confirmed, order %s marked paid", transactionID, orderID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "processed"})
}
