package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/edusantana/academico/models"
	"github.com/edusantana/academico/notifications"
	"github.com/edusantana/academico/store"
	"github.com/google/uuid"
)

// ReconciliationService audits the order ledger against the enrollment store
// and, in repair mode, creates the enrollments that paid orders are missing.
// It never talks to the payment provider; the ledger is the source of truth.
type ReconciliationService struct {
	Orders      store.OrderLedger
	Enrollments store.EnrollmentStore
	Runs        store.RunRecorder
	Students    store.StudentDirectory
}

func NewReconciliationService(orders store.OrderLedger, enrollments store.EnrollmentStore, runs store.RunRecorder, students store.StudentDirectory) *ReconciliationService {
	return &ReconciliationService{Orders: orders, Enrollments: enrollments, Runs: runs, Students: students}
}

type MissingEnrollment struct {
	OrderID      uuid.UUID `json:"order_id"`
	StudentID    uuid.UUID `json:"student_id"`
	DisciplineID uuid.UUID `json:"discipline_id"`
}

type AuditReport struct {
	GeneratedAt         time.Time           `json:"generated_at"`
	PaidOrders          int                 `json:"paid_orders"`
	Enrollments         int64               `json:"enrollments"`
	EnrollmentsByStatus map[string]int64    `json:"enrollments_by_status"`
	Missing             []MissingEnrollment `json:"missing_enrollments"`
}

type RepairReport struct {
	Scanned         int      `json:"scanned"`
	Fixed           int      `json:"fixed"`
	AlreadyEnrolled int      `json:"already_enrolled"`
	Failed          int      `json:"failed"`
	Details         []string `json:"details"`
}

type studentDiscipline struct {
	studentID    uuid.UUID
	disciplineID uuid.UUID
}

// Audit is the read-only mode. It reports totals and every paid order whose
// (student, discipline) pair has no enrollment, and mutates nothing.
func (s *ReconciliationService) Audit(ctx context.Context) (*AuditReport, error) {
	started := time.Now()

	paidOrders, err := s.Orders.GetOrdersByStatus(ctx, models.OrderStatusPaid)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.Enrollments.CountEnrollmentsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, count := range byStatus {
		total += count
	}

	report := &AuditReport{
		GeneratedAt:         started,
		PaidOrders:          len(paidOrders),
		Enrollments:         total,
		EnrollmentsByStatus: byStatus,
		Missing:             []MissingEnrollment{},
	}

	for _, order := range paidOrders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, err := s.Enrollments.FindEnrollment(ctx, order.StudentID, order.DisciplineID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				report.Missing = append(report.Missing, MissingEnrollment{
					OrderID:      order.ID,
					StudentID:    order.StudentID,
					DisciplineID: order.DisciplineID,
				})
				continue
			}
			return nil, err
		}
	}

	s.recordRun(ctx, &models.ReconciliationRun{
		Mode:        "verify",
		PaidOrders:  report.PaidOrders,
		Enrollments: int(report.Enrollments),
		Missing:     len(report.Missing),
		DurationMs:  time.Since(started).Milliseconds(),
	})

	return report, nil
}

// Repair walks every paid order and creates the missing enrollments with
// academic status in-progress. Each order commits independently; a failure
// on one order never aborts the batch. The unique index on (student,
// discipline) arbitrates races with the ordinary enrollment flow and with
// concurrent repair runs, so running this twice finds nothing new to create.
func (s *ReconciliationService) Repair(ctx context.Context) (*RepairReport, error) {
	started := time.Now()

	paidOrders, err := s.Orders.GetOrdersByStatus(ctx, models.OrderStatusPaid)
	if err != nil {
		return nil, err
	}

	report := &RepairReport{
		Scanned: len(paidOrders),
		Details: []string{},
	}

	// Several paid orders can point at the same (student, discipline); they
	// resolve to one enrollment and are tallied once per pair.
	seen := make(map[studentDiscipline]struct{})

	for _, order := range paidOrders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pair := studentDiscipline{order.StudentID, order.DisciplineID}
		if _, done := seen[pair]; done {
			continue
		}
		seen[pair] = struct{}{}

		s.repairOrder(ctx, order, report)
	}

	s.recordRun(ctx, &models.ReconciliationRun{
		Mode:            "sync",
		PaidOrders:      report.Scanned,
		Fixed:           report.Fixed,
		AlreadyEnrolled: report.AlreadyEnrolled,
		Failed:          report.Failed,
		DurationMs:      time.Since(started).Milliseconds(),
	})

	return report, nil
}

func (s *ReconciliationService) repairOrder(ctx context.Context, order models.Order, report *RepairReport) {
	_, err := s.Enrollments.FindEnrollment(ctx, order.StudentID, order.DisciplineID)
	if err == nil {
		report.AlreadyEnrolled++
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		report.Failed++
		report.Details = append(report.Details, fmt.Sprintf("order %s: failed to look up enrollment: %v", order.ID, err))
		return
	}

	now := time.Now()
	enrollment := &models.Enrollment{
		StudentID:      order.StudentID,
		DisciplineID:   order.DisciplineID,
		AcademicStatus: models.EnrollmentInProgress,
		StartedAt:      &now,
	}

	err = s.Enrollments.CreateEnrollment(ctx, enrollment)
	switch {
	case err == nil:
		report.Fixed++
		report.Details = append(report.Details, fmt.Sprintf("order %s: enrolled student %s in discipline %s", order.ID, order.StudentID, order.DisciplineID))
		log.Printf("Reconciliation created enrollment for order %s (student %s, discipline %s)", order.ID, order.StudentID, order.DisciplineID)
		s.notifyStudent(ctx, order)
	case errors.Is(err, store.ErrDuplicateEnrollment):
		// A concurrent writer won the race. Same end state, not an error.
		report.AlreadyEnrolled++
	default:
		report.Failed++
		report.Details = append(report.Details, fmt.Sprintf("order %s: failed to create enrollment: %v", order.ID, err))
		log.Printf("🔥 Reconciliation failed to create enrollment for order %s: %v", order.ID, err)
	}
}

func (s *ReconciliationService) notifyStudent(ctx context.Context, order models.Order) {
	if s.Students == nil {
		return
	}

	contact, err := s.Students.GetStudentContact(ctx, order.StudentID)
	if err != nil {
		log.Printf("🔥 Failed to look up student %s for enrollment notification: %v", order.StudentID, err)
		return
	}

	go notifications.SendEmail(
		contact.FullName,
		contact.Email,
		"Your Enrollment is Confirmed!",
		"<h1>Enrollment Confirmed</h1><p>Your course material payment was confirmed and your enrollment has been created. You can now access the discipline.</p>",
	)
}

func (s *ReconciliationService) recordRun(ctx context.Context, run *models.ReconciliationRun) {
	if s.Runs == nil {
		return
	}
	if err := s.Runs.RecordRun(ctx, run); err != nil {
		log.Printf("🔥 Failed to record reconciliation run: %v", err)
	}
}
