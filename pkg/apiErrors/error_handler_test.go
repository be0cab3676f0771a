package apiErrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantStatus int
	}{
		{name: "Token inválido", code: ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{name: "Sem permissão", code: ErrInsufficientPrivilege, wantStatus: http.StatusForbidden},
		{name: "Sincronização em andamento", code: ErrSyncAlreadyRunning, wantStatus: http.StatusConflict},
		{name: "Código desconhecido", code: "XYZ_999", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.code, "mensagem", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"code":"`+tt.code+`","message":"mensagem"}`, rec.Body.String())
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Equal(t, APIError{Code: ErrInternalServer, Message: "Erro desconhecido"}, FromError(nil, ErrDatabaseOperation))
	assert.Equal(t, APIError{Code: ErrDatabaseOperation, Message: "falhou"}, FromError(errors.New("falhou"), ErrDatabaseOperation))
}
