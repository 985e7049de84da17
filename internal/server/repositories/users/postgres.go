package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/dbx"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
)

const userColumns = `id, email, password_hash, user_type, profile_completed,
		first_name, last_name, location, city, skills, interests,
		specialization, availability, bio, avatar_key, last_login,
		created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash, user_type)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, string(user.UserType)).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateEmail
		}
		if dbx.IsCheckViolation(err) {
			return nil, common.ErrEmptyPassword
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE lower(email) = lower($1)`

	return r.queryOne(ctx, query, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1`

	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, p models.Profile) (*models.User, error) {
	query :=
		`UPDATE users SET
		   first_name = COALESCE($2, first_name),
		   last_name = COALESCE($3, last_name),
		   location = COALESCE($4, location),
		   city = COALESCE($5, city),
		   skills = COALESCE($6::jsonb, skills),
		   interests = COALESCE($7::jsonb, interests),
		   specialization = COALESCE($8, specialization),
		   availability = COALESCE($9, availability),
		   bio = COALESCE($10, bio),
		   profile_completed = TRUE,
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	skills, err := jsonArg(p.Skills)
	if err != nil {
		return nil, err
	}
	interests, err := jsonArg(p.Interests)
	if err != nil {
		return nil, err
	}

	return r.queryOne(ctx, query, id,
		p.FirstName, p.LastName, p.Location, p.City, skills, interests,
		p.Specialization, p.Availability, p.Bio)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	query :=
		`UPDATE users SET last_login = $2
		 WHERE id = $1`

	return r.execOne(ctx, query, id, at)
}

func (r *PostgresRepository) SetAvatarKey(ctx context.Context, id string, key string) error {
	query :=
		`UPDATE users SET avatar_key = $2, updated_at = now()
		 WHERE id = $1`

	return r.execOne(ctx, query, id, key)
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return common.ErrorNotFound
		}
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

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var userType string
	var skills, interests []byte
	var lastLogin sql.NullTime

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &userType, &u.ProfileCompleted,
		&u.FirstName, &u.LastName, &u.Location, &u.City, &skills, &interests,
		&u.Specialization, &u.Availability, &u.Bio, &u.AvatarKey, &lastLogin,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	u.UserType = models.UserType(userType)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	if u.Skills, err = decodeList(skills); err != nil {
		return nil, err
	}
	if u.Interests, err = decodeList(interests); err != nil {
		return nil, err
	}

	return u, nil
}

func decodeList(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// jsonArg encodes a list parameter; nil stays SQL NULL so COALESCE keeps the
// stored value.
func jsonArg(list []string) (any, error) {
	if list == nil {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}
