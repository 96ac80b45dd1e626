package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/edusantana/academico/models"
	"gorm.io/gorm"
)

const registrationSuffixLength = 6
const digitBytes = "0123456789"

// GenerateUniqueRegistrationNumber produces a student registration number of
// the form YYYYNNNNNN, unique across the students table.
func GenerateUniqueRegistrationNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	year := time.Now().Year()

	for {
		b := make([]byte, registrationSuffixLength)
		for i := range b {
			b[i] = digitBytes[seededRand.Intn(len(digitBytes))]
		}
		number := fmt.Sprintf("%d%s", year, string(b))

		var student models.Student
		err := tx.Where("registration_number = ?", number).First(&student).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
