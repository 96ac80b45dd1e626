package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/edusantana/academico/models"
	"github.com/edusantana/academico/payments"
	"github.com/edusantana/academico/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mu             sync.Mutex
	GetPaymentFunc func(ctx context.Context, transactionID string) (*payments.Payment, error)
	calls          int
}

func (m *mockGateway) GetPayment(ctx context.Context, transactionID string) (*payments.Payment, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.GetPaymentFunc(ctx, transactionID)
}

// fakeLedger mimics ApplyVerifiedPayment's storage-level idempotency: one
// status transition per order, one record per (order, transaction) key.
type fakeLedger struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]string
	records  map[string]models.PaymentRecord
	applyErr error
	calls    int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		statuses: make(map[uuid.UUID]string),
		records:  make(map[string]models.PaymentRecord),
	}
}

func (f *fakeLedger) ApplyVerifiedPayment(ctx context.Context, orderID uuid.UUID, rec *models.PaymentRecord) (store.PaymentApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.applyErr != nil {
		return store.PaymentApplication{}, f.applyErr
	}
	if _, ok := store.PrincipalFrom(ctx); !ok {
		return store.PaymentApplication{}, store.ErrPrivilegeRequired
	}

	var app store.PaymentApplication
	if f.statuses[orderID] == models.OrderStatusPending {
		f.statuses[orderID] = models.OrderStatusPaid
		app.OrderMarkedPaid = true
	}
	key := orderID.String() + "/" + rec.ProviderTxnID
	if _, exists := f.records[key]; !exists {
		f.records[key] = *rec
		app.RecordCreated = true
	}
	return app, nil
}

func approvedPayment(orderID uuid.UUID) *payments.Payment {
	approvedAt := time.Now()
	return &payments.Payment{
		ID:                "12345",
		Status:            payments.PaymentStatusApproved,
		ExternalReference: orderID.String(),
		TransactionAmount: 149.90,
		DateApproved:      &approvedAt,
	}
}

func newWebhookApp(gateway payments.Gateway, ledger store.PaymentApplier) *fiber.App {
	app := fiber.New()
	handler := NewWebhookHandler(gateway, ledger)
	app.Post("/api/v1/payments/webhook", handler.HandlePaymentNotification)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestWebhookApprovedPaymentMarksOrderPaid(t *testing.T) {
	orderID := uuid.New()
	ledger := newFakeLedger()
	ledger.statuses[orderID] = models.OrderStatusPending

	gateway := &mockGateway{GetPaymentFunc: func(ctx context.Context, transactionID string) (*payments.Payment, error) {
		assert.Equal(t, "T1", transactionID)
		return approvedPayment(orderID), nil
	}}

	app := newWebhookApp(gateway, ledger)
	resp := postWebhook(t, app, "/api/v1/payments/webhook?topic=payment&id=T1")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderStatusPaid, ledger.statuses[orderID])

	record, ok := ledger.records[orderID.String()+"/T1"]
	require.True(t, ok)
	assert.Equal(t, orderID, record.OrderID)
	assert.Equal(t, "T1", record.ProviderTxnID)
	assert.Equal(t, 149.90, record.Amount)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	orderID := uuid.New()
	ledger := newFakeLedger()
	ledger.statuses[orderID] = models.OrderStatusPending

	gateway := &mockGateway{GetPaymentFunc: func(ctx context.Context, transactionID string) (*payments.Payment, error) {
		return approvedPayment(orderID), nil
	}}

	app := newWebhookApp(gateway, ledger)
	for i := 0; i < 5; i++ {
		resp := postWebhook(t, app, "/api/v1/payments/webhook?topic=payment&id=T1")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, models.OrderStatusPaid, ledger.statuses[orderID])
	assert.Len(t, ledger.records, 1)
}

func TestWebhookIgnoresNonPaymentTopics(t *testing.T) {
	ledger := newFakeLedger()
	gateway := &mockGateway{GetPaymentFunc: func(ctx context.Context, transactionID string) (*payments.Payment, error) {
		return nil, errors.New("gateway must not be called for ignored notifications")
	}}

	app := newWebhookApp(gateway, ledger)

	resp := postWebhook(t, app, "/api/v1/payments/webhook?topic=merchant_order&id=T1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = postWebhook(t, app, "/api/v1/payments/webhook?topic=payment")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, 0, gateway.calls)
	assert.Equal(t, 0, ledger.calls)
}

func TestWebhookDoesNotTrustForgedNotifications(t *testing.T) {
	// The request claims a payment happened, but the provider says declined.
	orderID := uuid.New()
	ledger := newFakeLedger()
	ledger.statuses[orderID] = models.OrderStatusPending

	gateway := &mockGateway{GetPaymentFunc: func(ctx context.Context, transactionID string) (*payments.Payment, error) {
		payment := approvedPayment(orderID)
		payment.Status = "rejected"
		return payment, nil
	}}

	app := newWebhookApp(gateway, ledger)
	resp := postWebhook(t, app, "/api/v1/payments/webhook?topic=payment&id=T1")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderStatusPending, ledger.statuses[orderID])
	assert.Equal(t, 0, ledger.calls)
}

func TestWebhookSkipsPaymentsWithoutOrderReference(t *testing.T) {
	ledger := newFakeLedger()
	gateway := &mockGateway{GetPaymentFunc: func(ctx context.Context, transactionID string) (*payments.Payment, error) {
		payment := approvedPayment(uuid.New())
		payment.ExternalReference = ""
		return payment, nil
	}}

	app := newWebhookApp(gateway, ledger)
	resp := postWebhook(t, app, "/api/v1/payments/webhook?topic=payment&id=T1")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, ledger.calls)
}

func TestWebhookGatewayFailureLeavesLedgerUntouched(t *testing.T) {
	ledger := newFakeLedger()
	gateway := &mockGateway{GetPaymentFunc: func(ctx context.Context, transactionID string) (*payments.Payment, error) {
		return nil, errors.New("provider timeout")
	}}

	app := newWebhookApp(gateway, ledger)
	resp := postWebhook(t, app, "/api/v1/payments/webhook?topic=payment&id=T1")

	// Nothing was mutated, so the provider may redeliver.
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 0, ledger.calls)
}

func TestWebhookAcknowledgesDespitePersistenceFailure(t *testing.T) {
	orderID := uuid.New()
	ledger := newFakeLedger()
	ledger.applyErr = errors.New("connection refused")

	gateway := &mockGateway{GetPaymentFunc: func(ctx context.Context, transactionID string) (*payments.Payment, error) {
		return approvedPayment(orderID), nil
	}}

	app := newWebhookApp(gateway, ledger)
	resp := postWebhook(t, app, "/api/v1/payments/webhook?topic=payment&id=T1")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, ledger.calls)
}
