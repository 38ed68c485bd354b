package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"quickdoc/config"
	"quickdoc/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// Dispatcher is the outbound notification gateway collaborator. Delivery
// is best-effort: the core records the outcome but never retries, and a
// failure never propagates into the booking path.
type Dispatcher interface {
	Notify(ctx context.Context, candidate entity.Candidate) error
}

type webhookDispatcher struct {
	client *http.Client
	url    string
	log    *logrus.Logger
}

// NewWebhookDispatcher posts candidates as JSON to the configured gateway
// endpoint with a bounded timeout. With no URL configured it degrades to
// log-only delivery, which keeps local development gateway-free.
func NewWebhookDispatcher(cfg config.DispatchConfig, log *logrus.Logger) Dispatcher {
	return &webhookDispatcher{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.GatewayURL,
		log:    log,
	}
}

func (d *webhookDispatcher) Notify(ctx context.Context, candidate entity.Candidate) error {
	if d.url == "" {
		d.log.Infof("Notification (no gateway configured): patient=%s slot=%s", candidate.PatientID, candidate.SlotID)
		return nil
	}

	body, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return nil
}
