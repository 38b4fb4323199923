package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/events"
	"github.com/spec-kit/green-campus/internal/repository"
	apperrors "github.com/spec-kit/green-campus/pkg/util"
)

// DashboardService serves and replaces the campus metrics dataset.
type DashboardService struct {
	dashboards repository.DashboardRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(dashboards repository.DashboardRepository, dispatcher events.Dispatcher, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{dashboards: dashboards, dispatcher: dispatcher, logger: logger}
}

// Get returns the stored dataset, or the built-in sample when none was saved yet.
func (s *DashboardService) Get(ctx context.Context) (domain.Dashboard, error) {
	dashboard, err := s.dashboards.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DefaultDashboard(), nil
		}
		return domain.Dashboard{}, apperrors.NewInternalError(err)
	}
	return dashboard.Normalized(), nil
}

// Update validates and replaces the dataset wholesale. Admin only.
func (s *DashboardService) Update(ctx context.Context, dashboard domain.Dashboard, caller domain.Identity) error {
	if !caller.IsAdmin() {
		return apperrors.NewForbidden("Unauthorized - Admin only")
	}
	if err := dashboard.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	dashboard = dashboard.Normalized()
	if err := s.dashboards.Save(ctx, dashboard); err != nil {
		return apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventDashboardUpdated, "dashboard", caller.Email, events.DashboardUpdatedPayload{
			EnergyPoints: len(dashboard.EnergyData),
			WaterPoints:  len(dashboard.WaterData),
			WastePoints:  len(dashboard.WasteData),
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return nil
}
