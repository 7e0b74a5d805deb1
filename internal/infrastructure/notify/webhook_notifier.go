// Package notify implementa el colaborador externo de notificaciones de stock
// bajo como un webhook HTTP saliente.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dentalia/insumos-api/internal/application/reporting"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

var _ reporting.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier implementa reporting.Notifier con un POST JSON al endpoint
// configurado. El caller descarta el error: un webhook caído nunca bloquea
// el ledger.
type WebhookNotifier struct {
	httpClient *resty.Client
}

// NewWebhookNotifier construye el notificador.
func NewWebhookNotifier(webhookURL string, timeout time.Duration) *WebhookNotifier {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(webhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &WebhookNotifier{httpClient: restyClient}
}

// lowStockAlert payload del webhook.
type lowStockAlert struct {
	ClinicID string          `json:"clinic_id"`
	SentAt   time.Time       `json:"sent_at"`
	Items    []lowStockEntry `json:"items"`
}

type lowStockEntry struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int64  `json:"quantity"`
	Threshold    int64  `json:"threshold"`
}

// NotifyLowStock envía la alerta con todas las filas en o bajo umbral.
func (n *WebhookNotifier) NotifyLowStock(ctx context.Context, clinicID string, rows []repository.LowStockRow) error {
	alert := lowStockAlert{
		ClinicID: clinicID,
		SentAt:   time.Now().UTC(),
		Items:    make([]lowStockEntry, 0, len(rows)),
	}
	for _, r := range rows {
		alert.Items = append(alert.Items, lowStockEntry{
			ItemID:       r.ItemID,
			ItemName:     r.ItemName,
			LocationID:   r.LocationID,
			LocationName: r.LocationName,
			Quantity:     r.Quantity,
			Threshold:    r.Threshold,
		})
	}

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(alert).
		Post("")
	if err != nil {
		return fmt.Errorf("enviar alerta de stock bajo: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook de alertas respondió %d", resp.StatusCode())
	}
	return nil
}
