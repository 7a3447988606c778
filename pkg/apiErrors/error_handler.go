package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro retornados pela API
const (
	// Erros de autenticação com a Similarweb
	ErrMissingAPIKey = "AUTH_001" // Chave da API não informada
	ErrInvalidAPIKey = "AUTH_002" // Chave recusada pela Similarweb

	// Erros de cota
	ErrQuotaExceeded = "QUOTA_001" // Créditos de dados esgotados

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrTooManyDomains      = "VAL_004" // Lote acima do limite de domínios
	ErrInvalidDateRange    = "VAL_005" // Intervalo de meses inválido
	ErrInvalidCountry      = "VAL_006" // País não suportado

	// Erros de recurso
	ErrBatchNotFound    = "RES_001" // Lote inexistente ou expirado
	ErrDomainNotFound   = "RES_002" // Domínio sem dados no lote
	ErrResourceNotFound = "RES_003" // Rota inexistente
	ErrMethodNotAllowed = "RES_004" // Método não aceito pela rota

	// Erros do servidor
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrExternalService = "SRV_003" // Erro em serviço externo
	ErrCommunication   = "SRV_004" // Erro de comunicação
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrMissingAPIKey:       http.StatusUnauthorized,
	ErrInvalidAPIKey:       http.StatusUnauthorized,
	ErrQuotaExceeded:       http.StatusPaymentRequired,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrTooManyDomains:      http.StatusBadRequest,
	ErrInvalidDateRange:    http.StatusBadRequest,
	ErrInvalidCountry:      http.StatusBadRequest,
	ErrBatchNotFound:       http.StatusNotFound,
	ErrDomainNotFound:      http.StatusNotFound,
	ErrResourceNotFound:    http.StatusNotFound,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrCommunication:       http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusCode retorna o status HTTP associado ao código
func StatusCode(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(code))
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
// Útil para quando você quer envolver um erro existente em um erro de API
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
