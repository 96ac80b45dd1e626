package handlers

import (
	"log"

	"github.com/edusantana/academico/services"
	"github.com/edusantana/academico/store"
	"github.com/gofiber/fiber/v2"
)

type ReconciliationHandler struct {
	Service *services.ReconciliationService
}

func NewReconciliationHandler(service *services.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{Service: service}
}

// VerifyEnrollments runs the read-only audit and returns the report.
func (h *ReconciliationHandler) VerifyEnrollments(c *fiber.Ctx) error {
	ctx := store.WithPrincipal(c.UserContext(), store.SystemPrincipal())

	report, err := h.Service.Audit(ctx)
	if err != nil {
		log.Printf("🔥 Enrollment audit failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Audit failed"})
	}

	return c.JSON(report)
}

// SyncEnrollments runs repair mode. Safe to call repeatedly; a rerun finds
// nothing left to create.
func (h *ReconciliationHandler) SyncEnrollments(c *fiber.Ctx) error {
	ctx := store.WithPrincipal(c.UserContext(), store.SystemPrincipal())

	report, err := h.Service.Repair(ctx)
	if err != nil {
		log.Printf("🔥 Enrollment sync failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Sync failed"})
	}

	return c.JSON(report)
}
