package utils

import (
	"time"

	"github.com/pkg/errors"
)

// ParseDate converte uma data no formato YYYY-MM-DD para meia-noite UTC.
// String vazia devolve nil.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, errors.Wrapf(err, "data inválida %q, use o formato YYYY-MM-DD", dateStr)
	}

	return &date, nil
}
