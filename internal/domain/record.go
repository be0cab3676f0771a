package domain

// Record é uma linha plana do relatório: chave -> valor escalar.
// Usado tanto para o registro bruto da API quanto para o registro canônico.
type Record map[string]any

// Clone retorna uma cópia rasa do registro
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
