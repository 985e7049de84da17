package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

const dashboardOpportunities = 10

type DashboardStats struct {
	TotalOpportunities int `json:"totalOpportunities"`
	ActiveApplications int `json:"activeApplications"`
}

type Dashboard struct {
	User          *models.User
	Opportunities []models.Opportunity
	Stats         DashboardStats
}

type DashboardService struct {
	repos repomanager.RepositoryManager
}

func NewDashboardService(repos repomanager.RepositoryManager) *DashboardService {
	return &DashboardService{repos: repos}
}

// Get collects the dashboard for user; the three lookups run concurrently.
func (s *DashboardService) Get(ctx context.Context, user *models.User) (*Dashboard, error) {
	d := &Dashboard{User: user}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.repos.Opportunities().List(ctx, models.OpportunityOpen, dashboardOpportunities)
		if err != nil {
			return fmt.Errorf("error listing opportunities: %w", err)
		}
		d.Opportunities = list
		return nil
	})

	g.Go(func() error {
		n, err := s.repos.Opportunities().CountByStatus(ctx, models.OpportunityOpen)
		if err != nil {
			return fmt.Errorf("error counting opportunities: %w", err)
		}
		d.Stats.TotalOpportunities = n
		return nil
	})

	g.Go(func() error {
		n, err := s.repos.Applications().CountByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("error counting applications: %w", err)
		}
		d.Stats.ActiveApplications = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
