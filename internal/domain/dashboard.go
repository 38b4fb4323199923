package domain

import (
	"fmt"
	"math"
	"strings"
)

// MetricPoint is one weekly reading compared against the previous period.
type MetricPoint struct {
	Week     string
	Current  float64
	Previous float64
}

// Dashboard is the singleton dataset rendered by the campus dashboard.
type Dashboard struct {
	EnergyData []MetricPoint
	WaterData  []MetricPoint
	WasteData  []MetricPoint
}

// Validate checks every series entry.
func (d Dashboard) Validate() error {
	series := []struct {
		name   string
		points []MetricPoint
	}{
		{"energyData", d.EnergyData},
		{"waterData", d.WaterData},
		{"wasteData", d.WasteData},
	}
	for _, s := range series {
		for i, p := range s.points {
			if err := p.validate(); err != nil {
				return fmt.Errorf("%s[%d]: %w", s.name, i, err)
			}
		}
	}
	return nil
}

func (p MetricPoint) validate() error {
	if strings.TrimSpace(p.Week) == "" {
		return fmt.Errorf("week is required")
	}
	for _, v := range []float64{p.Current, p.Previous} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("values must be finite and non-negative")
		}
	}
	return nil
}

// Normalized replaces nil series with empty ones.
func (d Dashboard) Normalized() Dashboard {
	if d.EnergyData == nil {
		d.EnergyData = []MetricPoint{}
	}
	if d.WaterData == nil {
		d.WaterData = []MetricPoint{}
	}
	if d.WasteData == nil {
		d.WasteData = []MetricPoint{}
	}
	return d
}

// DefaultDashboard is served until an admin stores a dataset.
func DefaultDashboard() Dashboard {
	return Dashboard{
		EnergyData: []MetricPoint{
			{Week: "Week 1", Current: 120, Previous: 100},
			{Week: "Week 2", Current: 130, Previous: 110},
			{Week: "Week 3", Current: 115, Previous: 105},
			{Week: "Week 4", Current: 140, Previous: 120},
		},
		WaterData: []MetricPoint{
			{Week: "Week 1", Current: 200, Previous: 180},
			{Week: "Week 2", Current: 210, Previous: 190},
			{Week: "Week 3", Current: 195, Previous: 175},
			{Week: "Week 4", Current: 220, Previous: 200},
		},
		WasteData: []MetricPoint{
			{Week: "Week 1", Current: 80, Previous: 75},
			{Week: "Week 2", Current: 85, Previous: 80},
			{Week: "Week 3", Current: 78, Previous: 72},
			{Week: "Week 4", Current: 90, Previous: 85},
		},
	}
}
