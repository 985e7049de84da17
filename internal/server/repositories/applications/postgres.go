package applications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/dbx"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Application) (*models.Application, error) {
	query :=
		`INSERT INTO applications (opportunity_id, user_id, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, a.OpportunityID, a.UserID, a.Message).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT count(*) FROM applications WHERE user_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
