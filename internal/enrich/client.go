// Package enrich joins the long mortality table with World Bank
// population figures to produce per-100k mortality rates.
package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"mortsig/internal/config"
	"mortsig/internal/logger"
	"mortsig/internal/models"
)

// Fetch errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrUnexpectedResponse   = errors.New("unexpected World Bank response format")
)

// Client fetches population data from the World Bank API with
// config-driven retry and backoff.
type Client struct {
	httpClient *http.Client
	cfg        *config.EnrichmentConfig
	log        *logger.Logger
}

// NewClient creates a new enrichment client.
func NewClient(cfg *config.EnrichmentConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Retry.GetTimeout()},
		cfg:        cfg,
		log:        log,
	}
}

// wire format of one World Bank observation
type wbRecord struct {
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

// FetchPopulations downloads population totals for all countries over
// the configured year range. Observations without a value are skipped.
func (c *Client) FetchPopulations() ([]models.Population, error) {
	url := fmt.Sprintf(
		"%s/all/indicator/%s?format=json&per_page=20000&date=%d:%d",
		c.cfg.APIBase, c.cfg.Indicator, c.cfg.StartYear, c.cfg.EndYear,
	)

	body, err := c.get(url)
	if err != nil {
		return nil, err
	}

	var pages []json.RawMessage
	if err := json.Unmarshal(body, &pages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	if len(pages) < 2 {
		return nil, ErrUnexpectedResponse
	}

	var records []wbRecord
	if err := json.Unmarshal(pages[1], &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	var pops []models.Population

	for _, rec := range records {
		if rec.Value == nil {
			continue
		}

		year, convErr := strconv.Atoi(rec.Date)
		if convErr != nil {
			// Quarterly or otherwise non-annual observation.
			continue
		}

		code := rec.CountryISO3
		if code == "" {
			code = rec.Country.ID
		}

		pops = append(pops, models.Population{
			Code:        code,
			CountryName: rec.Country.Value,
			Year:        year,
			Population:  int64(*rec.Value),
		})
	}

	if c.log != nil {
		c.log.Info("fetched population records", "count", len(pops))
	}

	return pops, nil
}

// get performs an HTTP GET with retry and exponential backoff per the
// configured policy. Only transient status codes are retried.
func (c *Client) get(url string) ([]byte, error) {
	retry := &c.cfg.Retry

	var lastErr error

	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, retry.MaxAttempts, err)

			c.backoff(retry, attempt)

			continue
		}

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)

			if !isRetryableStatus(resp.StatusCode) {
				return nil, lastErr
			}

			c.backoff(retry, attempt)

			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)

			c.backoff(retry, attempt)

			continue
		}

		return body, nil
	}

	return nil, lastErr
}

func (c *Client) backoff(retry *config.RetryPolicy, attempt int) {
	if attempt >= retry.MaxAttempts {
		return
	}

	if delay := retry.GetRetryDelay(attempt + 1); delay > 0 {
		time.Sleep(delay)
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
