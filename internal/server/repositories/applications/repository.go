// Package applications records volunteers applying to opportunities. A user
// applies to a given opportunity at most once; a second attempt yields
// common.ErrAlreadyApplied.
package applications

import (
	"context"

	"github.com/dmitrijs2005/connectlink/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Application) (*models.Application, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
