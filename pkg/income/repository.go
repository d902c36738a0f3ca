package income

import (
	"context"
	"errors"

	"github.com/centava/centava/pkg/cadence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

var ErrSourceNotFound = errors.New("income source not found")

type Repository interface {
	Store(ctx context.Context, userId int, source Source) (int, error)
	Get(ctx context.Context, userId int, id int) (Source, error)
	GetAll(ctx context.Context, userId int, includeInactive bool) ([]Source, error)
	Update(ctx context.Context, userId int, source Source) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, source Source) (int, error) {
	query := `INSERT INTO income_source (user_id, name, gross_amount, net_amount, cadence, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		source.Name,
		source.GrossAmount,
		source.NetAmount,
		string(source.Cadence),
		source.IsActive,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to store income source: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, id int) (Source, error) {
	query := `SELECT id, name, gross_amount, net_amount, cadence, is_active
			  FROM income_source WHERE user_id = $1 AND id = $2`
	row := r.db.QueryRow(ctx, query, userId, id)
	source, err := scanSource(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Source{}, ErrSourceNotFound
	} else if err != nil {
		log.Errorf("failed to get income source: %v", err)
		return Source{}, err
	}
	return source, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int, includeInactive bool) ([]Source, error) {
	query := `SELECT id, name, gross_amount, net_amount, cadence, is_active
			  FROM income_source WHERE user_id = $1`
	if !includeInactive {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, source Source) (bool, error) {
	query := `UPDATE income_source
			  SET name = $1, gross_amount = $2, net_amount = $3, cadence = $4, is_active = $5
			  WHERE user_id = $6 AND id = $7`
	tag, err := r.db.Exec(ctx, query,
		source.Name,
		source.GrossAmount,
		source.NetAmount,
		string(source.Cadence),
		source.IsActive,
		userId,
		source.Id,
	)
	if err != nil {
		log.Errorf("failed to update income source: %v", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM income_source WHERE user_id = $1 AND id = $2`, userId, id)
	if err != nil {
		log.Errorf("failed to delete income source: %v", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanSource(row pgx.Row) (Source, error) {
	var source Source
	var gross, net decimal.Decimal
	var sourceCadence string
	if err := row.Scan(
		&source.Id,
		&source.Name,
		&gross,
		&net,
		&sourceCadence,
		&source.IsActive,
	); err != nil {
		return Source{}, err
	}
	source.GrossAmount = gross
	source.NetAmount = net
	source.Cadence = cadence.Cadence(sourceCadence)
	return source, nil
}
