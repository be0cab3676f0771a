package extracting

import "github.com/pkg/errors"

var (
	ErrInvalidConfig = errors.New("configuração de sincronização inválida")
	ErrFetchWindow   = errors.New("falha ao buscar janela do relatório")
	ErrWriteRecords  = errors.New("falha ao gravar registros da janela")
)
