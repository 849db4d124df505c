package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dukerupert/numlookup/internal/domain"
)

// Client implements Validator against numlookupapi.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *slog.Logger
}

// Compile-time check to ensure Client implements Validator.
var _ Validator = (*Client)(nil)

// NewClient creates a lookup API client.
// The HTTP client has no timeout; cancellation comes from the request context.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Transport: cfg.Transport},
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// apiResponse is the raw validate response. Older API versions name the
// phone field "number".
type apiResponse struct {
	Phone               string `json:"phone"`
	Number              string `json:"number"`
	CountryName         string `json:"country_name"`
	CountryPrefix       string `json:"country_prefix"`
	CountryCode         string `json:"country_code"`
	InternationalFormat string `json:"international_format"`
	LocalFormat         string `json:"local_format"`
	LineType            string `json:"line_type"`
	Valid               bool   `json:"valid"`
}

func (r apiResponse) toDomain() domain.LookupSuccess {
	phone := r.Phone
	if phone == "" {
		phone = r.Number
	}
	return domain.LookupSuccess{
		Phone:               phone,
		CountryName:         r.CountryName,
		CountryPrefix:       r.CountryPrefix,
		CountryCode:         r.CountryCode,
		InternationalFormat: r.InternationalFormat,
		LocalFormat:         r.LocalFormat,
		LineType:            r.LineType,
		Valid:               r.Valid,
	}
}

// Validate looks up phone. It never returns nil.
func (c *Client) Validate(ctx context.Context, phone string) domain.LookupResult {
	res, err := c.validate(ctx, phone)
	if err != nil {
		c.logger.Error("phone validation failed",
			"error", err,
			"code", domain.ErrorCode(err),
		)
		return domain.FailureFromError(err)
	}
	return res
}

func (c *Client) validate(ctx context.Context, phone string) (domain.LookupSuccess, error) {
	if c.apiKey == "" {
		return domain.LookupSuccess{}, ErrCredentialNotConfigured
	}

	reqURL := fmt.Sprintf("%s/v1/validate/%s?%s",
		c.baseURL,
		url.PathEscape(phone),
		url.Values{"apikey": {c.apiKey}}.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.LookupSuccess{}, networkError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.LookupSuccess{}, networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.LookupSuccess{}, networkError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("lookup api non-success status", "status", resp.StatusCode, "body", string(body))
		return domain.LookupSuccess{}, responseError(resp.StatusCode, nil)
	}

	var parsed *apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.LookupSuccess{}, responseError(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if parsed == nil {
		return domain.LookupSuccess{}, responseError(resp.StatusCode, errors.New("empty response object"))
	}

	return parsed.toDomain(), nil
}
