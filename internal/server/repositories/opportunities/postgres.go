package opportunities

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/dbx"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
)

const opportunityColumns = `id, title, description, organization_id, organization_name,
		location, skills_required, commitment, status, applicants, views,
		created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error) {
	query :=
		`INSERT INTO opportunities (title, description, organization_id, organization_name,
		   location, skills_required, commitment, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, applicants, views, created_at, updated_at`

	skills := o.SkillsRequired
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		o.Title, o.Description, o.OrganizationID, o.OrganizationName,
		o.Location, string(b), o.Commitment, string(o.Status),
	).Scan(&o.ID, &o.Applicants, &o.Views, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	o.SkillsRequired = skills
	return o, nil
}

func (r *PostgresRepository) List(ctx context.Context, status models.OpportunityStatus, limit int) ([]models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities
		 WHERE status = $1
		 ORDER BY created_at DESC
		 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Opportunity, 0, limit)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities
		 WHERE id = $1`

	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) View(ctx context.Context, id string) (*models.Opportunity, error) {
	query :=
		`UPDATE opportunities SET views = views + 1
		 WHERE id = $1
		 RETURNING ` + opportunityColumns

	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) IncrementApplicants(ctx context.Context, id string) error {
	query :=
		`UPDATE opportunities SET applicants = applicants + 1, updated_at = now()
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status models.OpportunityStatus) (int, error) {
	query := `SELECT count(*) FROM opportunities WHERE status = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Opportunity, error) {
	o, err := scanOpportunity(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}

func scanOpportunity(row rowScanner) (*models.Opportunity, error) {
	o := &models.Opportunity{}
	var status string
	var skills []byte

	err := row.Scan(&o.ID, &o.Title, &o.Description, &o.OrganizationID, &o.OrganizationName,
		&o.Location, &skills, &o.Commitment, &status, &o.Applicants, &o.Views,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.Status = models.OpportunityStatus(status)
	o.SkillsRequired = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &o.SkillsRequired); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}
	return o, nil
}
