package domain

import (
	"time"
)

// ReplicationRange é o intervalo absoluto de datas coberto por uma sincronização.
// Calculado uma única vez no início da execução e nunca alterado.
type ReplicationRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days retorna a quantidade de dias do intervalo, limites inclusos
func (r ReplicationRange) Days() int {
	return DaysBetween(r.From, r.To) + 1
}

// DateWindow representa a cobertura de uma única requisição ao AppsFlyer.
// Os limites são inclusivos e Start nunca é posterior a End.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days retorna a largura da janela em dias, limites inclusos
func (w DateWindow) Days() int {
	return DaysBetween(w.Start, w.End) + 1
}

// Token retorna o token de continuação que aponta para esta janela
func (w DateWindow) Token() ContinuationToken {
	return NewContinuationToken(w.Start)
}

// ContinuationToken guarda o início da última janela buscada.
// O valor zero indica a primeira chamada da paginação.
type ContinuationToken struct {
	start time.Time
	set   bool
}

func NewContinuationToken(start time.Time) ContinuationToken {
	return ContinuationToken{start: start, set: true}
}

// IsZero indica se o token representa a primeira chamada
func (t ContinuationToken) IsZero() bool {
	return !t.set
}

func (t ContinuationToken) Start() time.Time {
	return t.start
}

// DateOf normaliza um instante para a meia-noite UTC da sua data de calendário,
// considerando o fuso do próprio instante.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween retorna quantos dias de calendário separam from de to
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}
