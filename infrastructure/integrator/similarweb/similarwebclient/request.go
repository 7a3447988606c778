package similarwebclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	similarwebdomain "github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

// get executa a requisição com no máximo uma nova tentativa, após um atraso
// fixo, e apenas para falhas transitórias (rede, 429 e 5xx).
func (c *SimilarwebClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	body, err := c.getOnce(ctx, endpoint)
	if err == nil || !isTransient(err) {
		return body, err
	}

	logrus.WithFields(logrus.Fields{
		"path":        redactedPath(endpoint),
		"retry_delay": c.retryDelay.String(),
		"error":       err.Error(),
	}).Warn("similarweb: transient failure, retrying once")

	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(domain.ErrCancelled, ctx.Err().Error())
	case <-timer.C:
	}

	return c.getOnce(ctx, endpoint)
}

func (c *SimilarwebClient) getOnce(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(domain.ErrCancelled, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidInput, "similarweb: error creating request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(domain.ErrCancelled, ctx.Err().Error())
		}
		return nil, errors.Wrap(domain.ErrNetwork, transportMessage(err))
	}
	defer resp.Body.Close()

	return handleResponse(resp)
}

// handleResponse lê o corpo e classifica os códigos de status da API
func handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(domain.ErrNetwork, "similarweb: error reading response body")
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	message := errorMessage(resp, body)
	apiErr := &similarwebdomain.APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Kind:       classify(resp.StatusCode, message),
	}

	return nil, apiErr
}

func classify(statusCode int, message string) error {
	switch {
	case statusCode == http.StatusUnauthorized:
		return domain.ErrAuth
	case statusCode == http.StatusPaymentRequired:
		return domain.ErrQuotaExceeded
	case statusCode == http.StatusForbidden:
		if similarwebdomain.IsQuotaMessage(message) {
			return domain.ErrQuotaExceeded
		}
		return domain.ErrAuth
	case statusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case statusCode == http.StatusTooManyRequests, statusCode >= http.StatusInternalServerError:
		return domain.ErrAPI
	case similarwebdomain.IsNotFoundMessage(message):
		return domain.ErrNotFound
	case similarwebdomain.IsQuotaMessage(message):
		return domain.ErrQuotaExceeded
	default:
		return domain.ErrAPI
	}
}

// errorMessage extrai meta.error_message, com fallback para o corpo ou o status
func errorMessage(resp *http.Response, body []byte) string {
	var errResp similarwebdomain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Meta.ErrorMessage != "" {
		return errResp.Meta.ErrorMessage
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}

	return fmt.Sprintf("HTTP error %s", resp.Status)
}

func isTransient(err error) bool {
	if errors.Is(err, domain.ErrNetwork) {
		return true
	}

	var apiErr *similarwebdomain.APIError
	return errors.As(err, &apiErr) && apiErr.Temporary()
}

// transportMessage descarta a URL do erro de transporte, que carrega a api_key
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "similarweb: " + urlErr.Err.Error()
	}
	return "similarweb: " + err.Error()
}

func redactedPath(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Path
}
