package normalizing

import (
	"github.com/pkg/errors"
)

// A Master API, diferente das demais APIs do AppsFlyer, devolve os nomes de
// exibição das colunas, que não servem como nomes SQL. O mapa abaixo converte
// de volta para os nomes canônicos do AppsFlyer.
// Ver https://support.appsflyer.com/hc/en-us/articles/213223166

const ReportVersionV4 = "v4"

var ErrUnknownReportVersion = errors.New("versão de relatório desconhecida")

// FieldMapping liga um rótulo de exibição ao nome canônico
type FieldMapping struct {
	Label string
	Name  string
}

// FieldMap é a tabela de renomeação de uma variante de relatório.
// A ordem de declaração é a ordem de aplicação.
type FieldMap struct {
	Version  string
	Mappings []FieldMapping
}

// Names retorna os nomes canônicos na ordem de declaração
func (f FieldMap) Names() []string {
	names := make([]string, 0, len(f.Mappings))
	for _, m := range f.Mappings {
		names = append(names, m.Name)
	}
	return names
}

// Lookup retorna o nome canônico de um rótulo
func (f FieldMap) Lookup(label string) (string, bool) {
	for _, m := range f.Mappings {
		if m.Label == label {
			return m.Name, true
		}
	}
	return "", false
}

var MasterReportV4 = FieldMap{
	Version: ReportVersionV4,
	Mappings: []FieldMapping{
		// Dimensões de agrupamento
		{Label: "App ID", Name: "app_id"},
		{Label: "Media Source", Name: "pid"},
		{Label: "Campaign", Name: "c"},
		{Label: "GEO", Name: "geo"},
		{Label: "Install Time", Name: "install_time"},
		{Label: "Touch Type", Name: "attributed_touch_type"},
		{Label: "Partner", Name: "af_prt"},
		{Label: "Adset", Name: "af_adset"},
		{Label: "Channel", Name: "af_channel"},
		{Label: "Ad", Name: "af_ad"},
		{Label: "Campaign ID", Name: "af_c_id"},
		{Label: "Adset ID", Name: "af_adset_id"},
		{Label: "Ad ID", Name: "af_ad_id"},
		{Label: "Site ID", Name: "af_siteid"},
		{Label: "Keywords", Name: "af_keywords"},

		// KPIs
		{Label: "Impressions", Name: "impressions"},
		{Label: "Clicks", Name: "clicks"},
		{Label: "Installs", Name: "installs"},
		{Label: "Cost", Name: "cost"},
		{Label: "Average eCPI", Name: "average_ecpi"},
		{Label: "ROI", Name: "roi"},
		{Label: "Revenue", Name: "revenue"},
		{Label: "Conversion Rate", Name: "cr"},
		{Label: "Cohort Day 1 - Total Revenue Per User", Name: "cohort_day_1_total_revenue_per_user"},
		{Label: "Cohort Day 3 - Total Revenue Per User", Name: "cohort_day_3_total_revenue_per_user"},
		{Label: "Cohort Day 7 - Total Revenue Per User", Name: "cohort_day_7_total_revenue_per_user"},
		{Label: "Cohort Day 30 - Total Revenue Per User", Name: "cohort_day_30_total_revenue_per_user"},
	},
}

var fieldMaps = map[string]FieldMap{
	ReportVersionV4: MasterReportV4,
}

// FieldMapForVersion retorna a tabela da variante de relatório informada
func FieldMapForVersion(version string) (FieldMap, error) {
	fm, ok := fieldMaps[version]
	if !ok {
		return FieldMap{}, errors.Wrapf(ErrUnknownReportVersion, "versão %q", version)
	}
	return fm, nil
}
