package store

import (
	"context"
	"errors"

	"github.com/edusantana/academico/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrStatusConflict      = errors.New("order status conflict")
	ErrDuplicateEnrollment = errors.New("enrollment already exists")
	ErrPrivilegeRequired   = errors.New("privileged internal context required")
)

// Principal identifies who a store call is acting for. Role-gated endpoints
// carry the caller resolved from their JWT; the webhook handler, jobs and the
// reconciliation engine carry the explicit system principal. Writes to the
// ledger and to enrollments require the latter, which keeps the privilege
// boundary visible at the call site instead of hidden in ambient credentials.
type Principal struct {
	UserID uuid.UUID
	Role   string
	System bool
}

func SystemPrincipal() Principal {
	return Principal{Role: "system", System: true}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func requireSystem(ctx context.Context) error {
	p, ok := PrincipalFrom(ctx)
	if !ok || !p.System {
		return ErrPrivilegeRequired
	}
	return nil
}

// PaymentApplication reports what ApplyVerifiedPayment actually changed, so
// redeliveries can be logged as no-ops rather than treated as errors.
type PaymentApplication struct {
	OrderMarkedPaid bool
	RecordCreated   bool
}

type OrderLedger interface {
	GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)

	// SetOrderStatus atomically moves an order from fromStatus to toStatus.
	// Returns changed=false with a nil error when the order already carries
	// toStatus, and ErrStatusConflict when it carries anything else.
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, fromStatus, toStatus string) (changed bool, err error)
}

type PaymentRecordStore interface {
	// InsertPaymentRecordIfAbsent creates the record unless one already
	// exists for its (order id, provider transaction id) key.
	InsertPaymentRecordIfAbsent(ctx context.Context, rec *models.PaymentRecord) (created bool, err error)
}

// PaymentApplier groups the two webhook-side mutations into one transaction.
type PaymentApplier interface {
	ApplyVerifiedPayment(ctx context.Context, orderID uuid.UUID, rec *models.PaymentRecord) (PaymentApplication, error)
}

type EnrollmentStore interface {
	FindEnrollment(ctx context.Context, studentID, disciplineID uuid.UUID) (*models.Enrollment, error)

	// CreateEnrollment returns ErrDuplicateEnrollment when the (student,
	// discipline) unique index rejects the row. Callers racing the ordinary
	// enrollment flow treat that as already-enrolled.
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error

	CountEnrollmentsByStatus(ctx context.Context) (map[string]int64, error)
}

type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.ReconciliationRun) error
}

type StudentContact struct {
	FullName string
	Email    string
}

// StudentDirectory resolves a student id to the contact details used for
// enrollment notifications.
type StudentDirectory interface {
	GetStudentContact(ctx context.Context, studentID uuid.UUID) (*StudentContact, error)
}
