package filters

import (
	"github.com/foxxcyber/vitrine/internal/models"
)

// facetLabels maps each boolean facet to the labels it contributes to a
// property's searchable tag set
var facetLabels = []struct {
	has    func(p *models.Property) bool
	labels []string
}{
	{func(p *models.Property) bool { return p.IsFeatured }, []string{"destaque", "featured"}},
	{func(p *models.Property) bool { return p.IsBeachfront }, []string{"frente mar", "beachfront"}},
	{func(p *models.Property) bool { return p.IsNearBeach }, []string{"quadra mar", "near beach"}},
	{func(p *models.Property) bool { return p.IsDevelopment }, []string{"empreendimento", "development"}},
	{func(p *models.Property) bool { return p.AcceptsExchange }, []string{"aceita permuta", "exchange"}},
}

// SearchableTags returns the property's own tags followed by the labels derived
// from its boolean facets
func SearchableTags(p *models.Property) []string {
	tags := make([]string, 0, len(p.Tags)+4)
	tags = append(tags, p.Tags...)
	return append(tags, facetLabelsOf(p)...)
}

// facetLabelsOf returns the derived labels of p. Labels are stored folded.
func facetLabelsOf(p *models.Property) []string {
	var labels []string
	for _, f := range facetLabels {
		if f.has(p) {
			labels = append(labels, f.labels...)
		}
	}
	return labels
}
