package bic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/validation"
)

// DefaultOpenIBANURL is the public OpenIBAN service.
const DefaultOpenIBANURL = "https://openiban.com"

// maxResponseBytes caps how much of a validation response is read.
const maxResponseBytes = 64 << 10

// OpenIBAN resolves BICs through the OpenIBAN validation endpoint. It is safe
// for concurrent use.
type OpenIBAN struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

// OpenIBANOption configures an OpenIBAN client.
type OpenIBANOption func(*OpenIBAN)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) OpenIBANOption {
	return func(o *OpenIBAN) {
		if client != nil {
			o.client = client
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) OpenIBANOption {
	return func(o *OpenIBAN) {
		if timeout > 0 {
			o.client.Timeout = timeout
		}
	}
}

// WithRequestsPerMinute limits the request rate. Zero disables the limit.
func WithRequestsPerMinute(n int) OpenIBANOption {
	return func(o *OpenIBAN) {
		if n <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// WithOpenIBANLogger sets the logger.
func WithOpenIBANLogger(logger logging.Logger) OpenIBANOption {
	return func(o *OpenIBAN) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOpenIBAN creates a client for baseURL (DefaultOpenIBANURL when empty).
func NewOpenIBAN(baseURL string, opts ...OpenIBANOption) *OpenIBAN {
	if baseURL == "" {
		baseURL = DefaultOpenIBANURL
	}
	o := &OpenIBAN{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type openIBANResponse struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
	IBAN     string   `json:"iban"`
	BankData struct {
		BankCode string `json:"bankCode"`
		Name     string `json:"name"`
		BIC      string `json:"bic"`
	} `json:"bankData"`
}

// ResolveBIC implements Resolver.
func (o *OpenIBAN) ResolveBIC(ctx context.Context, iban string) (string, error) {
	if !validation.IsIBAN(iban) {
		return "", fmt.Errorf("%w: %s", ErrInvalidIBAN, iban)
	}
	normalized := validation.NormalizeIBAN(iban)

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %v", ErrResolutionUnavailable, err)
		}
	}

	endpoint := fmt.Sprintf("%s/validate/%s?getBIC=true&validateBankCode=true", o.baseURL, url.PathEscape(normalized))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrResolutionUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", ErrResolutionUnavailable, err)
	}

	o.logger.Debug("OpenIBAN response",
		logging.Field{Key: logging.FieldIBAN, Value: normalized},
		logging.Field{Key: logging.FieldStatus, Value: resp.StatusCode},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openiban status %d", ErrResolutionUnavailable, resp.StatusCode)
	}

	var result openIBANResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrResolutionUnavailable, err)
	}
	if !result.Valid {
		msg := strings.Join(result.Messages, "; ")
		return "", fmt.Errorf("%w: %s", ErrInvalidIBAN, strings.TrimSpace(normalized+" "+msg))
	}
	if result.BankData.BIC == "" {
		return "", fmt.Errorf("%w: openiban has no BIC for %s", ErrBICNotFound, normalized)
	}
	return result.BankData.BIC, nil
}

// IsTransient reports whether err may succeed on a later attempt.
func IsTransient(err error) bool {
	return errors.Is(err, ErrResolutionUnavailable)
}
