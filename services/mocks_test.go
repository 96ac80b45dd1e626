package services

import (
	"context"
	"sync"

	"github.com/edusantana/academico/models"
	"github.com/edusantana/academico/store"
	"github.com/google/uuid"
)

type mockOrderLedger struct {
	Orders               []models.Order
	GetOrdersByStatusErr error
}

func (m *mockOrderLedger) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	if m.GetOrdersByStatusErr != nil {
		return nil, m.GetOrdersByStatusErr
	}
	var out []models.Order
	for _, order := range m.Orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *mockOrderLedger) SetOrderStatus(ctx context.Context, orderID uuid.UUID, fromStatus, toStatus string) (bool, error) {
	return false, nil
}

type enrollmentKey struct {
	studentID    uuid.UUID
	disciplineID uuid.UUID
}

// mockEnrollmentStore keeps enrollments in a map and enforces the same
// (student, discipline) uniqueness the real schema does. CreateErrFor injects
// a per-student failure to simulate referential or constraint errors.
type mockEnrollmentStore struct {
	mu           sync.Mutex
	enrollments  map[enrollmentKey]*models.Enrollment
	CreateErrFor map[uuid.UUID]error
	createCalls  int
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{
		enrollments:  make(map[enrollmentKey]*models.Enrollment),
		CreateErrFor: make(map[uuid.UUID]error),
	}
}

func (m *mockEnrollmentStore) FindEnrollment(ctx context.Context, studentID, disciplineID uuid.UUID) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	enrollment, ok := m.enrollments[enrollmentKey{studentID, disciplineID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return enrollment, nil
}

func (m *mockEnrollmentStore) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if err, ok := m.CreateErrFor[enrollment.StudentID]; ok {
		return err
	}

	key := enrollmentKey{enrollment.StudentID, enrollment.DisciplineID}
	if _, exists := m.enrollments[key]; exists {
		return store.ErrDuplicateEnrollment
	}
	m.enrollments[key] = enrollment
	return nil
}

func (m *mockEnrollmentStore) CountEnrollmentsByStatus(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int64)
	for _, enrollment := range m.enrollments {
		counts[enrollment.AcademicStatus]++
	}
	return counts, nil
}

type mockStudentDirectory struct {
	mu          sync.Mutex
	Contacts    map[uuid.UUID]*store.StudentContact
	lookupCalls int
}

func newMockStudentDirectory() *mockStudentDirectory {
	return &mockStudentDirectory{Contacts: make(map[uuid.UUID]*store.StudentContact)}
}

func (m *mockStudentDirectory) GetStudentContact(ctx context.Context, studentID uuid.UUID) (*store.StudentContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookupCalls++
	contact, ok := m.Contacts[studentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return contact, nil
}

type mockRunRecorder struct {
	mu   sync.Mutex
	Runs []models.ReconciliationRun
}

func (m *mockRunRecorder) RecordRun(ctx context.Context, run *models.ReconciliationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs = append(m.Runs, *run)
	return nil
}
