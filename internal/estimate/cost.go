package estimate

import "github.com/example/repair-dispatch/internal/models"

// Cost aggregates parts and labor into a total. No rounding happens here;
// the presentation layer rounds for display only. An empty parts list
// yields a zero parts cost.
func Cost(parts []models.Part, laborHours, hourlyRate float64) models.CostBreakdown {
	var partsCost float64
	for _, p := range parts {
		partsCost += p.EstimatedPrice
	}
	labor := hourlyRate * laborHours
	return models.CostBreakdown{
		Parts: partsCost,
		Labor: labor,
		Total: partsCost + labor,
	}
}
