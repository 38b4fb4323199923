package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDashboardHasFourWeeks(t *testing.T) {
	d := DefaultDashboard()
	assert.Len(t, d.EnergyData, 4)
	assert.Len(t, d.WaterData, 4)
	assert.Len(t, d.WasteData, 4)
	assert.NoError(t, d.Validate())
}

func TestDashboardValidate(t *testing.T) {
	tests := []struct {
		name    string
		point   MetricPoint
		wantErr bool
	}{
		{"ok", MetricPoint{Week: "Week 1", Current: 1, Previous: 2}, false},
		{"blank week", MetricPoint{Week: "  ", Current: 1}, true},
		{"negative", MetricPoint{Week: "Week 1", Current: -1}, true},
		{"nan", MetricPoint{Week: "Week 1", Previous: math.NaN()}, true},
		{"inf", MetricPoint{Week: "Week 1", Current: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Dashboard{WasteData: []MetricPoint{tt.point}}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "wasteData[0]")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDashboardNormalized(t *testing.T) {
	d := Dashboard{EnergyData: []MetricPoint{{Week: "Week 1"}}}.Normalized()
	assert.Len(t, d.EnergyData, 1)
	assert.NotNil(t, d.WaterData)
	assert.Empty(t, d.WaterData)
	assert.NotNil(t, d.WasteData)
}
