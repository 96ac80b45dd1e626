package handlers

import (
	"github.com/edusantana/academico/database"
	"github.com/edusantana/academico/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func GetMyEnrollments(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var student models.Student
	if err := database.DB.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student profile not found"})
	}

	var enrollments []models.Enrollment
	if err := database.DB.Preload("Discipline").Where("student_id = ?", student.ID).Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(enrollments)
}

func ListDisciplines(c *fiber.Ctx) error {
	var disciplines []models.Discipline
	if err := database.DB.Where("is_active = ?", true).Order("name ASC").Find(&disciplines).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(disciplines)
}
