package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/spec-kit/green-campus/internal/domain"
)

// DashboardRepository stores the single dashboard dataset.
type DashboardRepository interface {
	// Get returns ErrNotFound until a dataset has been saved.
	Get(ctx context.Context) (*domain.Dashboard, error)
	// Save replaces the stored dataset wholesale.
	Save(ctx context.Context, dashboard domain.Dashboard) error
}

type metricDocument struct {
	Week     string  `bson:"week"`
	Current  float64 `bson:"current"`
	Previous float64 `bson:"previous"`
}

type dashboardDocument struct {
	EnergyData []metricDocument `bson:"energyData"`
	WaterData  []metricDocument `bson:"waterData"`
	WasteData  []metricDocument `bson:"wasteData"`
}

type dashboardRepository struct {
	coll *mongo.Collection
}

// NewDashboardRepository returns a MongoDB-backed implementation.
func NewDashboardRepository(coll *mongo.Collection) DashboardRepository {
	return &dashboardRepository{coll: coll}
}

func (r *dashboardRepository) Get(ctx context.Context) (*domain.Dashboard, error) {
	var doc dashboardDocument
	if err := r.coll.FindOne(ctx, bson.M{}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find dashboard: %w", err)
	}
	d := domain.Dashboard{
		EnergyData: metricsFromDocuments(doc.EnergyData),
		WaterData:  metricsFromDocuments(doc.WaterData),
		WasteData:  metricsFromDocuments(doc.WasteData),
	}
	return &d, nil
}

func (r *dashboardRepository) Save(ctx context.Context, dashboard domain.Dashboard) error {
	doc := dashboardDocument{
		EnergyData: metricsToDocuments(dashboard.EnergyData),
		WaterData:  metricsToDocuments(dashboard.WaterData),
		WasteData:  metricsToDocuments(dashboard.WasteData),
	}
	if _, err := r.coll.ReplaceOne(ctx, bson.M{}, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}
	return nil
}

func metricsToDocuments(points []domain.MetricPoint) []metricDocument {
	out := make([]metricDocument, 0, len(points))
	for _, p := range points {
		out = append(out, metricDocument{Week: p.Week, Current: p.Current, Previous: p.Previous})
	}
	return out
}

func metricsFromDocuments(docs []metricDocument) []domain.MetricPoint {
	out := make([]domain.MetricPoint, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.MetricPoint{Week: d.Week, Current: d.Current, Previous: d.Previous})
	}
	return out
}
