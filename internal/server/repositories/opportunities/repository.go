// Package opportunities stores volunteering opportunities.
package opportunities

import (
	"context"

	"github.com/dmitrijs2005/connectlink/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error)
	// List returns up to limit opportunities with the given status, newest
	// first.
	List(ctx context.Context, status models.OpportunityStatus, limit int) ([]models.Opportunity, error)
	Get(ctx context.Context, id string) (*models.Opportunity, error)
	// View increments the view counter and returns the updated record.
	View(ctx context.Context, id string) (*models.Opportunity, error)
	IncrementApplicants(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status models.OpportunityStatus) (int, error)
}
