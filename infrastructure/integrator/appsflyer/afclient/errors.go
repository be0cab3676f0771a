package afclient

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized      = errors.New("appsflyer: token inválido ou sem permissão para o app")
	ErrUnexpectedPayload = errors.New("appsflyer: resposta fora do formato esperado")
)

// APIError representa uma resposta não-200 da API do AppsFlyer
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("appsflyer: requisição falhou com status %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("appsflyer: requisição falhou com status %s", e.Status)
}

// Unwrap expõe ErrUnauthorized para respostas 401/403
func (e *APIError) Unwrap() error {
	if e.IsUnauthorized() {
		return ErrUnauthorized
	}
	return nil
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Retryable indica se vale a pena repetir a requisição
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
