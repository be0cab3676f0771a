package normalizing

import (
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

// Normalize reescreve os rótulos de exibição para os nomes canônicos.
// Devolve um novo registro; o registro de entrada nunca é alterado.
// Chaves fora do mapa passam intactas.
//
// Se dois rótulos presentes levam ao mesmo nome canônico, ou se o nome
// canônico já existe no registro, vence o último na ordem de declaração do
// mapa. Ver Collisions.
func Normalize(record domain.Record, fm FieldMap) domain.Record {
	out := record.Clone()
	for _, m := range fm.Mappings {
		value, ok := out[m.Label]
		if !ok {
			continue
		}
		delete(out, m.Label)
		out[m.Name] = value
	}
	return out
}

// Collision descreve um nome canônico alimentado por mais de uma chave do registro
type Collision struct {
	Name    string
	Sources []string
}

// Collisions lista os nomes canônicos que Normalize resolveria sobrescrevendo
// um valor. Não altera o registro.
func Collisions(record domain.Record, fm FieldMap) []Collision {
	sources := make(map[string][]string)
	order := make([]string, 0)

	for _, m := range fm.Mappings {
		if _, ok := record[m.Label]; !ok {
			continue
		}
		if _, seen := sources[m.Name]; !seen {
			order = append(order, m.Name)
			if _, exists := record[m.Name]; exists && m.Name != m.Label {
				sources[m.Name] = append(sources[m.Name], m.Name)
			}
		}
		sources[m.Name] = append(sources[m.Name], m.Label)
	}

	var collisions []Collision
	for _, name := range order {
		if len(sources[name]) > 1 {
			collisions = append(collisions, Collision{Name: name, Sources: sources[name]})
		}
	}
	return collisions
}
