package domain

// Status é a tag de resultado de um domínio dentro do lote
type Status string

const (
	StatusOK            Status = "ok"
	StatusInvalidInput  Status = "invalid_input"
	StatusAuthError     Status = "auth_error"
	StatusQuotaExceeded Status = "quota_exceeded"
	StatusNotFound      Status = "not_found"
	StatusAPIError      Status = "api_error"
	StatusNetworkError  Status = "network_error"
	StatusCancelled     Status = "cancelled"
)

// Statuses lista as tags na ordem usada nos resumos
var Statuses = []Status{
	StatusOK,
	StatusInvalidInput,
	StatusAuthError,
	StatusQuotaExceeded,
	StatusNotFound,
	StatusAPIError,
	StatusNetworkError,
	StatusCancelled,
}

// HaltsBatch indica se o status interrompe o restante do lote.
// Chave inválida ou créditos esgotados fariam todas as chamadas seguintes falharem.
func (s Status) HaltsBatch() bool {
	return s == StatusAuthError || s == StatusQuotaExceeded
}
