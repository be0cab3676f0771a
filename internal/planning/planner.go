package planning

import (
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

// MaxWindowDays é a largura máxima de uma janela de consulta.
// A Master API devolve métricas de cohort/ROI zeradas quando uma única consulta
// cobre mais de um dia. Só aumentar depois de validar contra a API real.
const MaxWindowDays = 1

var (
	ErrInvalidUpToDaysAgo  = errors.New("up_to_days_ago deve ser maior ou igual a zero")
	ErrInvalidDateRange    = errors.New("date_range deve ser maior ou igual a um")
	ErrInvalidWindowLength = errors.New("largura máxima da janela deve ser maior ou igual a um")
	ErrInvalidRange        = errors.New("intervalo de replicação inválido: from posterior a to")
	ErrEmptyWindow         = errors.New("janela vazia: início posterior ao fim")
)

// ComputeRange calcula o intervalo absoluto [from, to] a partir do instante de
// referência. O instante é sempre informado pelo chamador.
func ComputeRange(now time.Time, upToDaysAgo, dateRange int) (domain.ReplicationRange, error) {
	if upToDaysAgo < 0 {
		return domain.ReplicationRange{}, errors.Wrapf(ErrInvalidUpToDaysAgo, "recebido %d", upToDaysAgo)
	}
	if dateRange < 1 {
		return domain.ReplicationRange{}, errors.Wrapf(ErrInvalidDateRange, "recebido %d", dateRange)
	}

	to := domain.DateOf(now).AddDate(0, 0, -upToDaysAgo)
	from := to.AddDate(0, 0, -(dateRange - 1))

	return domain.ReplicationRange{From: from, To: to}, nil
}

// NextWindow devolve a próxima janela a buscar ou nil quando o intervalo foi
// esgotado. É total e sem efeitos colaterais: depois de devolver nil, continua
// devolvendo nil para o mesmo token.
func NextWindow(r domain.ReplicationRange, token domain.ContinuationToken, maxWindowDays int) (*domain.DateWindow, error) {
	if maxWindowDays < 1 {
		return nil, errors.Wrapf(ErrInvalidWindowLength, "recebido %d", maxWindowDays)
	}

	from, to := domain.DateOf(r.From), domain.DateOf(r.To)
	if from.After(to) {
		return nil, errors.Wrapf(ErrInvalidRange, "%s > %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	start := from
	if !token.IsZero() {
		start = domain.DateOf(token.Start()).AddDate(0, 0, maxWindowDays)
	}

	if start.After(to) {
		return nil, nil
	}

	end := start.AddDate(0, 0, maxWindowDays-1)
	if end.After(to) {
		end = to
	}

	if start.After(end) {
		return nil, errors.Wrapf(ErrEmptyWindow, "%s > %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	return &domain.DateWindow{Start: start, End: end}, nil
}

// Planner carrega a largura de janela usada pelo loop de extração
type Planner struct {
	maxWindowDays int
}

type Option func(*Planner)

// WithMaxWindowDays altera a largura máxima da janela.
// Não é exposto na configuração pública.
func WithMaxWindowDays(days int) Option {
	return func(p *Planner) {
		p.maxWindowDays = days
	}
}

func NewPlanner(opts ...Option) *Planner {
	p := &Planner{maxWindowDays: MaxWindowDays}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) MaxWindowDays() int {
	return p.maxWindowDays
}

// NextWindow aplica a largura configurada no planner
func (p *Planner) NextWindow(r domain.ReplicationRange, token domain.ContinuationToken) (*domain.DateWindow, error) {
	return NextWindow(r, token, p.maxWindowDays)
}

// Windows enumera todas as janelas do intervalo, em ordem cronológica
func (p *Planner) Windows(r domain.ReplicationRange) ([]domain.DateWindow, error) {
	windows := []domain.DateWindow{}
	token := domain.ContinuationToken{}
	for {
		window, err := p.NextWindow(r, token)
		if err != nil {
			return nil, err
		}
		if window == nil {
			return windows, nil
		}
		windows = append(windows, *window)
		token = window.Token()
	}
}
