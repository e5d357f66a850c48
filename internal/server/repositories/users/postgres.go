package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/dbx"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, birth_date, admin,
	favourite_flats, created_flats, updated_flats, created_at, updated_at`

var setColumns = map[models.UserFlatSet]string{
	models.FavouriteFlats: "favourite_flats",
	models.CreatedFlats:   "created_flats",
	models.UpdatedFlats:   "updated_flats",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, email, password_hash, first_name, last_name, birth_date, admin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.BirthDate, user.Admin))
	if err != nil {
		return nil, mapError(err)
	}

	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY row_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	var args dbx.Args
	set := []string{"updated_at = now()"}

	if patch.Email != nil {
		set = append(set, "email = "+args.Add(*patch.Email))
	}
	if patch.PasswordHash != nil {
		set = append(set, "password_hash = "+args.Add(*patch.PasswordHash))
	}
	if patch.FirstName != nil {
		set = append(set, "first_name = "+args.Add(*patch.FirstName))
	}
	if patch.LastName != nil {
		set = append(set, "last_name = "+args.Add(*patch.LastName))
	}
	if patch.BirthDate != nil {
		set = append(set, "birth_date = "+args.Add(*patch.BirthDate))
	}
	if patch.Admin != nil {
		set = append(set, "admin = "+args.Add(*patch.Admin))
	}

	query := `UPDATE users SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + args.Add(id) +
		` RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *PostgresRepository) AddToSet(ctx context.Context, id string, set models.UserFlatSet, flatID string) (*models.User, error) {
	col, ok := setColumns[set]
	if !ok {
		return nil, fmt.Errorf("unknown flat set %q", set)
	}

	query := `UPDATE users SET ` + col + ` = CASE WHEN ` + col + ` ? $2 THEN ` + col +
		` ELSE ` + col + ` || to_jsonb($2::text) END, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, flatID))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresRepository) RemoveFromSet(ctx context.Context, id string, set models.UserFlatSet, flatID string) (*models.User, error) {
	col, ok := setColumns[set]
	if !ok {
		return nil, fmt.Errorf("unknown flat set %q", set)
	}

	query := `UPDATE users SET ` + col + ` = ` + col + ` - $2::text, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, flatID))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func scanUser(s dbx.Scanner) (*models.User, error) {
	u := &models.User{}
	var fav, created, updated []byte

	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.BirthDate, &u.Admin,
		&fav, &created, &updated, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if u.FavouriteFlats, err = decodeSet(fav); err != nil {
		return nil, err
	}
	if u.CreatedFlats, err = decodeSet(created); err != nil {
		return nil, err
	}
	if u.UpdatedFlats, err = decodeSet(updated); err != nil {
		return nil, err
	}
	u.BirthDate = u.BirthDate.UTC()

	return u, nil
}

func decodeSet(b []byte) ([]string, error) {
	res := make([]string, 0)
	if len(b) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("decode flat set: %w", err)
	}
	return res, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
