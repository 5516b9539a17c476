package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

// RESTDeliveryRepository implements DeliveryRepository against the
// attendance ingestion API.
type RESTDeliveryRepository struct {
	url        string
	httpClient *http.Client
}

// NewRESTDeliveryRepository creates the ingestion API client.
func NewRESTDeliveryRepository(url string) *RESTDeliveryRepository {
	return &RESTDeliveryRepository{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver submits one batch as a single JSON array. A 200 with
// success=true commits the batch; a 200 with success=false is the remote
// side's duplicate rejection; everything else is a failure.
func (r *RESTDeliveryRepository) Deliver(ctx context.Context, batch []models.ClassifiedEvent) (models.DeliveryOutcome, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return models.DeliveryFailed, fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return models.DeliveryFailed, fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.DeliveryFailed, fmt.Errorf("deliver batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.DeliveryFailed, fmt.Errorf("ingest API returned %s: %s", resp.Status, string(body))
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.DeliveryFailed, fmt.Errorf("decode delivery response: %w", err)
	}

	if !result.Success {
		return models.DeliverySoftRejected, nil
	}
	return models.DeliveryCommitted, nil
}
