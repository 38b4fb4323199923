package dto

import "github.com/spec-kit/green-campus/internal/domain"

// MetricPoint is one weekly reading on the wire.
type MetricPoint struct {
	Week     string  `json:"week"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// Dashboard is both the update payload and the response body.
// A series that is absent from an update decodes as nil.
type Dashboard struct {
	EnergyData []MetricPoint `json:"energyData"`
	WaterData  []MetricPoint `json:"waterData"`
	WasteData  []MetricPoint `json:"wasteData"`
}

// Empty reports whether none of the series keys were supplied.
func (d Dashboard) Empty() bool {
	return d.EnergyData == nil && d.WaterData == nil && d.WasteData == nil
}

// ToDomain converts the payload.
func (d Dashboard) ToDomain() domain.Dashboard {
	return domain.Dashboard{
		EnergyData: pointsToDomain(d.EnergyData),
		WaterData:  pointsToDomain(d.WaterData),
		WasteData:  pointsToDomain(d.WasteData),
	}
}

// NewDashboard maps the dataset for output.
func NewDashboard(d domain.Dashboard) Dashboard {
	return Dashboard{
		EnergyData: pointsFromDomain(d.EnergyData),
		WaterData:  pointsFromDomain(d.WaterData),
		WasteData:  pointsFromDomain(d.WasteData),
	}
}

func pointsToDomain(points []MetricPoint) []domain.MetricPoint {
	if points == nil {
		return nil
	}
	out := make([]domain.MetricPoint, 0, len(points))
	for _, p := range points {
		out = append(out, domain.MetricPoint{Week: p.Week, Current: p.Current, Previous: p.Previous})
	}
	return out
}

func pointsFromDomain(points []domain.MetricPoint) []MetricPoint {
	out := make([]MetricPoint, 0, len(points))
	for _, p := range points {
		out = append(out, MetricPoint{Week: p.Week, Current: p.Current, Previous: p.Previous})
	}
	return out
}
