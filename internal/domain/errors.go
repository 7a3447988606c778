package domain

import (
	"context"

	"github.com/pkg/errors"
)

// Erros base da taxonomia de enriquecimento. Os erros concretos são
// envelopados com errors.Wrap e classificados via StatusFromError.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrAuth          = errors.New("authentication failed")
	ErrQuotaExceeded = errors.New("data credits exhausted")
	ErrNotFound      = errors.New("no data found for domain")
	ErrAPI           = errors.New("unexpected vendor response")
	ErrNetwork       = errors.New("network failure")
	ErrCancelled     = errors.New("batch cancelled")
)

// StatusFromError mapeia um erro para a tag de status correspondente
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidInput):
		return StatusInvalidInput
	case errors.Is(err, ErrAuth):
		return StatusAuthError
	case errors.Is(err, ErrQuotaExceeded):
		return StatusQuotaExceeded
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrNetwork):
		return StatusNetworkError
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return StatusCancelled
	default:
		return StatusAPIError
	}
}
