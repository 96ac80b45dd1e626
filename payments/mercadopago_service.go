package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/edusantana/academico/configs"
	"github.com/sethvargo/go-retry"
)

const defaultAPIBase = "https://api.mercadopago.com"

// PaymentStatusApproved is the only provider status that may mutate the
// order ledger.
const PaymentStatusApproved = "approved"

// Payment is the provider's authoritative view of one transaction. The
// webhook never trusts its own request body; it fetches this instead.
type Payment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
	TransactionAmount float64     `json:"transaction_amount"`
	DateApproved      *time.Time  `json:"date_approved"`
}

type Gateway interface {
	GetPayment(ctx context.Context, transactionID string) (*Payment, error)
}

type MercadoPagoService struct {
	APIBase     string
	AccessToken string
	Client      *http.Client
}

func NewMercadoPagoService() *MercadoPagoService {
	apiBase := config.Config("MP_API_BASE_URL")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &MercadoPagoService{
		APIBase:     apiBase,
		AccessToken: config.Config("MP_ACCESS_TOKEN"),
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// GetPayment fetches the verified payment by transaction id. Network errors
// and 5xx responses are retried with exponential backoff before surfacing as
// retryable errors; 4xx responses fail immediately.
func (s *MercadoPagoService) GetPayment(ctx context.Context, transactionID string) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", s.APIBase, transactionID)

	var payment Payment
	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)

		resp, err := s.Client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			log.Printf("Payment provider returned %d for transaction %s, retrying", resp.StatusCode, transactionID)
			return retry.RetryableError(fmt.Errorf("provider returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(respBody))
		}

		if err := json.Unmarshal(respBody, &payment); err != nil {
			return fmt.Errorf("failed to unmarshal payment %s: %v", transactionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s from provider: %w", transactionID, err)
	}

	return &payment, nil
}
