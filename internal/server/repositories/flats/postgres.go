package flats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/dbx"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

const flatColumns = `id, city, street_name, street_number, area_size, has_ac, year_built, rent,
	date_available, owner_id, created_by, updated_by, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, flat *models.Flat) (*models.Flat, error) {
	query :=
		`INSERT INTO flats (id, city, street_name, street_number, area_size, has_ac, year_built, rent,
		                    date_available, owner_id, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING ` + flatColumns

	f, err := scanFlat(r.db.QueryRowContext(ctx, query,
		flat.ID, flat.City, flat.StreetName, flat.StreetNumber, flat.AreaSize, flat.HasAC, flat.YearBuilt,
		flat.Rent, flat.DateAvailable, flat.OwnerID, flat.CreatedBy))
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Flat, error) {
	query := `SELECT ` + flatColumns + ` FROM flats WHERE id = $1`

	f, err := scanFlat(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.FlatFilter) ([]*models.Flat, error) {
	var args dbx.Args
	var where []string

	if filter.City != nil {
		where = append(where, `city ILIKE '%' || `+args.Add(escapeLike(*filter.City))+` || '%'`)
	}
	if filter.MinRent != nil {
		where = append(where, "rent >= "+args.Add(*filter.MinRent))
	}
	if filter.MaxRent != nil {
		where = append(where, "rent <= "+args.Add(*filter.MaxRent))
	}
	if filter.MinAreaSize != nil {
		where = append(where, "area_size >= "+args.Add(*filter.MinAreaSize))
	}
	if filter.MaxAreaSize != nil {
		where = append(where, "area_size <= "+args.Add(*filter.MaxAreaSize))
	}
	if filter.HasAC != nil {
		where = append(where, "has_ac = "+args.Add(*filter.HasAC))
	}
	if filter.AvailableFrom != nil {
		where = append(where, "date_available >= "+args.Add(*filter.AvailableFrom))
	}
	if filter.OwnerID != nil {
		where = append(where, "owner_id = "+args.Add(*filter.OwnerID))
	}

	query := `SELECT ` + flatColumns + ` FROM flats`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY row_id`

	rows, err := r.db.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Flat, 0)
	for rows.Next() {
		f, err := scanFlat(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.FlatPatch) (*models.Flat, error) {
	var args dbx.Args
	set := []string{"updated_at = now()"}

	add := func(col string, v any) {
		set = append(set, col+" = "+args.Add(v))
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.StreetName != nil {
		add("street_name", *patch.StreetName)
	}
	if patch.StreetNumber != nil {
		add("street_number", *patch.StreetNumber)
	}
	if patch.AreaSize != nil {
		add("area_size", *patch.AreaSize)
	}
	if patch.HasAC != nil {
		add("has_ac", *patch.HasAC)
	}
	if patch.YearBuilt != nil {
		add("year_built", *patch.YearBuilt)
	}
	if patch.Rent != nil {
		add("rent", *patch.Rent)
	}
	if patch.DateAvailable != nil {
		add("date_available", *patch.DateAvailable)
	}
	if patch.UpdatedBy != nil {
		add("updated_by", *patch.UpdatedBy)
	}

	query := `UPDATE flats SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + args.Add(id) +
		` RETURNING ` + flatColumns

	f, err := scanFlat(r.db.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flats WHERE id = $1`, id)
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

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `DELETE FROM flats WHERE owner_id = $1 RETURNING id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func scanFlat(s dbx.Scanner) (*models.Flat, error) {
	f := &models.Flat{}
	err := s.Scan(&f.ID, &f.City, &f.StreetName, &f.StreetNumber, &f.AreaSize, &f.HasAC, &f.YearBuilt,
		&f.Rent, &f.DateAvailable, &f.OwnerID, &f.CreatedBy, &f.UpdatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.DateAvailable = f.DateAvailable.UTC()
	return f, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
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
