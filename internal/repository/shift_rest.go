package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

// RESTShiftRepository implements ShiftRepository against the shift
// configuration API.
type RESTShiftRepository struct {
	baseURL    string
	branchID   string
	companyID  string
	apiKey     string
	httpClient *http.Client
}

// NewRESTShiftRepository creates the shift API client.
func NewRESTShiftRepository(baseURL, branchID, companyID, apiKey string) *RESTShiftRepository {
	return &RESTShiftRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		branchID:   branchID,
		companyID:  companyID,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchShiftConfigs fetches the full shift map for this branch and company.
func (r *RESTShiftRepository) FetchShiftConfigs(ctx context.Context) (map[string]models.ShiftConfig, error) {
	q := url.Values{}
	q.Set("branch_id", r.branchID)
	q.Set("company_id", r.companyID)
	apiURL := fmt.Sprintf("%s?%s", r.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build shift request: %w", err)
	}
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch shift configs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shift API returned %s: %s", resp.Status, string(body))
	}

	var result struct {
		Success bool                          `json:"success"`
		Data    map[string]models.ShiftConfig `json:"data"`
		Error   string                        `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode shift response: %w", err)
	}
	if !result.Success || result.Data == nil {
		return nil, fmt.Errorf("shift API reported failure: %s", result.Error)
	}

	return result.Data, nil
}
