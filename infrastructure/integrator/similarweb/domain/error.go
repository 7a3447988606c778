package similarwebdomain

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse representa a estrutura de erro da API da Similarweb
type ErrorResponse struct {
	Meta Meta `json:"meta"`
}

// APIError é uma resposta HTTP não-200 já classificada. Kind é um dos erros
// base de internal/domain.
type APIError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("similarweb: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// Temporary indica falhas que valem uma nova tentativa
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

var quotaKeywords = []string{"credit", "quota", "limit", "exceeded", "hits"}

// IsQuotaMessage verifica se a mensagem da API indica créditos esgotados
func IsQuotaMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range quotaKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsNotFoundMessage verifica se a mensagem da API indica ausência de dados
func IsNotFoundMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "no data")
}
