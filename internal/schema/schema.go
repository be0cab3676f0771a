package schema

import (
	"strings"
)

// StreamName é o nome do stream do relatório master
const StreamName = "master"

type Type string

const (
	TypeString  Type = "string"
	TypeDate    Type = "date"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
)

type Property struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// MasterReport é o schema canônico emitido pelo conector.
// Precisa acompanhar os nomes canônicos de normalizing.MasterReportV4.
var MasterReport = []Property{
	{Name: "app_id", Type: TypeString},
	{Name: "pid", Type: TypeString},
	{Name: "c", Type: TypeString},
	{Name: "geo", Type: TypeString},
	{Name: "install_time", Type: TypeDate},
	{Name: "attributed_touch_type", Type: TypeString},
	{Name: "af_prt", Type: TypeString},
	{Name: "af_adset", Type: TypeString},
	{Name: "af_channel", Type: TypeString},
	{Name: "af_ad", Type: TypeString},
	{Name: "af_c_id", Type: TypeString},
	{Name: "af_adset_id", Type: TypeString},
	{Name: "af_ad_id", Type: TypeString},
	{Name: "af_siteid", Type: TypeString},
	{Name: "af_keywords", Type: TypeString},
	{Name: "impressions", Type: TypeInteger},
	{Name: "clicks", Type: TypeInteger},
	{Name: "installs", Type: TypeInteger},
	{Name: "cost", Type: TypeNumber},
	{Name: "average_ecpi", Type: TypeNumber},
	{Name: "roi", Type: TypeNumber},
	{Name: "revenue", Type: TypeNumber},
	{Name: "cr", Type: TypeNumber},
	{Name: "cohort_day_1_total_revenue_per_user", Type: TypeNumber},
	{Name: "cohort_day_3_total_revenue_per_user", Type: TypeNumber},
	{Name: "cohort_day_7_total_revenue_per_user", Type: TypeNumber},
	{Name: "cohort_day_30_total_revenue_per_user", Type: TypeNumber},
}

// PrimaryKeys separa o valor de groupings nas chaves primárias declaradas
func PrimaryKeys(groupings string) []string {
	keys := make([]string, 0)
	for _, part := range strings.Split(groupings, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keys = append(keys, part)
	}
	return keys
}

// Find retorna a propriedade com o nome informado
func Find(props []Property, name string) (Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// JSONSchema gera o JSON schema das propriedades, todas anuláveis
func JSONSchema(props []Property) map[string]any {
	properties := make(map[string]any, len(props))
	for _, p := range props {
		properties[p.Name] = jsonType(p.Type)
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func jsonType(t Type) map[string]any {
	switch t {
	case TypeDate:
		return map[string]any{"type": []string{"string", "null"}, "format": "date"}
	case TypeInteger:
		return map[string]any{"type": []string{"integer", "null"}}
	case TypeNumber:
		return map[string]any{"type": []string{"number", "null"}}
	default:
		return map[string]any{"type": []string{"string", "null"}}
	}
}
