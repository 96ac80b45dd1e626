package handlers

import (
	"github.com/edusantana/academico/database"
	"github.com/edusantana/academico/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type CheckoutRequest struct {
	DisciplineID string `json:"discipline_id" validate:"required,uuid"`
}

// CreateCheckout opens a pending order for the discipline's course material.
// The order id doubles as the external reference handed to the payment
// provider, which is how the webhook finds its way back to the ledger.
func CreateCheckout(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	disciplineID, _ := uuid.Parse(req.DisciplineID)

	var student models.Student
	if err := database.DB.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student profile not found"})
	}

	var discipline models.Discipline
	if err := database.DB.Where("id = ? AND is_active = ?", disciplineID, true).First(&discipline).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discipline not found"})
	}

	order := models.Order{
		StudentID:    student.ID,
		DisciplineID: discipline.ID,
		Price:        discipline.MaterialPrice,
		Status:       models.OrderStatusPending,
	}
	if err := database.DB.Create(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create order"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":              order,
		"external_reference": order.ID.String(),
	})
}

func GetMyOrders(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var student models.Student
	if err := database.DB.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student profile not found"})
	}

	var orders []models.Order
	if err := database.DB.Preload("Discipline").Where("student_id = ?", student.ID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(orders)
}

func AdminGetOrders(c *fiber.Ctx) error {
	status := c.Query("status")

	query := database.DB.Preload("Student").Preload("Discipline").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(orders)
}
