package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/edusantana/academico/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements every store interface on top of a single Postgres
// database. Uniqueness is enforced by the schema's unique indexes, never by
// check-then-act queries in here.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders with status %s: %w", status, err)
	}
	return orders, nil
}

func (s *GormStore) SetOrderStatus(ctx context.Context, orderID uuid.UUID, fromStatus, toStatus string) (bool, error) {
	if err := requireSystem(ctx); err != nil {
		return false, err
	}
	return setOrderStatus(s.db.WithContext(ctx), orderID, fromStatus, toStatus)
}

// setOrderStatus is a compare-and-set on the status column. The conditional
// UPDATE is the concurrency guard; no row lock is held across calls.
func setOrderStatus(tx *gorm.DB, orderID uuid.UUID, fromStatus, toStatus string) (bool, error) {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var order models.Order
	if err := tx.Select("status").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if order.Status == toStatus {
		return false, nil
	}
	return false, fmt.Errorf("%w: order %s is %q, expected %q", ErrStatusConflict, orderID, order.Status, fromStatus)
}

func (s *GormStore) InsertPaymentRecordIfAbsent(ctx context.Context, rec *models.PaymentRecord) (bool, error) {
	if err := requireSystem(ctx); err != nil {
		return false, err
	}
	return insertPaymentRecordIfAbsent(s.db.WithContext(ctx), rec)
}

func insertPaymentRecordIfAbsent(tx *gorm.DB, rec *models.PaymentRecord) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "provider_txn_id"}},
		DoNothing: true,
	}).Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ApplyVerifiedPayment(ctx context.Context, orderID uuid.UUID, rec *models.PaymentRecord) (PaymentApplication, error) {
	var app PaymentApplication
	if err := requireSystem(ctx); err != nil {
		return app, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := setOrderStatus(tx, orderID, models.OrderStatusPending, models.OrderStatusPaid)
		if err != nil {
			return err
		}
		app.OrderMarkedPaid = changed

		created, err := insertPaymentRecordIfAbsent(tx, rec)
		if err != nil {
			return err
		}
		app.RecordCreated = created
		return nil
	})
	if err != nil {
		return PaymentApplication{}, err
	}
	return app, nil
}

func (s *GormStore) FindEnrollment(ctx context.Context, studentID, disciplineID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND discipline_id = ?", studentID, disciplineID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (s *GormStore) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if err := requireSystem(ctx); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Create(enrollment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEnrollment
	}
	return err
}

func (s *GormStore) CountEnrollmentsByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		AcademicStatus string
		Count          int64
	}
	var rows []statusCount
	err := s.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("academic_status, count(*) as count").
		Group("academic_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.AcademicStatus] = row.Count
	}
	return counts, nil
}

func (s *GormStore) RecordRun(ctx context.Context, run *models.ReconciliationRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *GormStore) GetStudentContact(ctx context.Context, studentID uuid.UUID) (*StudentContact, error) {
	var student models.Student
	err := s.db.WithContext(ctx).Preload("User").First(&student, "id = ?", studentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &StudentContact{FullName: student.User.FullName, Email: student.User.Email}, nil
}
