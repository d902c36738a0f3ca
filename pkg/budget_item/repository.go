package budget_item

import (
	"context"
	"errors"
	"time"

	"github.com/centava/centava/pkg/cadence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("budget item not found")

type Repository interface {
	Store(ctx context.Context, userId int, item BudgetItem) (int, error)
	Get(ctx context.Context, userId int, id int) (BudgetItem, error)
	GetAll(ctx context.Context, userId int, includeInactive bool) ([]BudgetItem, error)
	Update(ctx context.Context, userId int, item BudgetItem) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, item BudgetItem) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer rollback(ctx, tx)

	query := `INSERT INTO budget_item (user_id, name, category, calc_type, value, cadence, priority, is_active, end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	var id int
	err = tx.QueryRow(ctx, query,
		userId,
		item.Name,
		string(item.Category),
		string(item.CalcType),
		item.Value,
		string(item.Cadence),
		item.Priority,
		item.IsActive,
		nullableTime(item.EndDate),
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to store budget item: %v", err)
		return 0, err
	}

	if err := r.storeDependencies(ctx, tx, id, item.DependsOn); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, id int) (BudgetItem, error) {
	query := `SELECT id, name, category, calc_type, value, cadence, priority, is_active, end_date
			  FROM budget_item WHERE user_id = $1 AND id = $2`
	item, err := scanItem(r.db.QueryRow(ctx, query, userId, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return BudgetItem{}, ErrItemNotFound
	} else if err != nil {
		log.Errorf("failed to get budget item: %v", err)
		return BudgetItem{}, err
	}

	deps, err := r.loadDependencies(ctx, []int{id})
	if err != nil {
		return BudgetItem{}, err
	}
	item.DependsOn = deps[id]
	return item, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int, includeInactive bool) ([]BudgetItem, error) {
	query := `SELECT id, name, category, calc_type, value, cadence, priority, is_active, end_date
			  FROM budget_item WHERE user_id = $1`
	if !includeInactive {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BudgetItem
	var ids []int
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		ids = append(ids, item.Id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	deps, err := r.loadDependencies(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].DependsOn = deps[items[i].Id]
	}
	return items, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, item BudgetItem) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer rollback(ctx, tx)

	query := `UPDATE budget_item
			  SET name = $1, category = $2, calc_type = $3, value = $4, cadence = $5, priority = $6, is_active = $7, end_date = $8
			  WHERE user_id = $9 AND id = $10`
	tag, err := tx.Exec(ctx, query,
		item.Name,
		string(item.Category),
		string(item.CalcType),
		item.Value,
		string(item.Cadence),
		item.Priority,
		item.IsActive,
		nullableTime(item.EndDate),
		userId,
		item.Id,
	)
	if err != nil {
		log.Errorf("failed to update budget item: %v", err)
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM budget_item_dependency WHERE item_id = $1`, item.Id); err != nil {
		return false, err
	}
	if err := r.storeDependencies(ctx, tx, item.Id, item.DependsOn); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM budget_item WHERE user_id = $1 AND id = $2`, userId, id)
	if err != nil {
		log.Errorf("failed to delete budget item: %v", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) storeDependencies(ctx context.Context, tx pgx.Tx, itemId int, dependsOn []int) error {
	for position, depId := range dependsOn {
		_, err := tx.Exec(ctx,
			`INSERT INTO budget_item_dependency (item_id, depends_on_id, position) VALUES ($1, $2, $3)`,
			itemId, depId, position)
		if err != nil {
			log.Errorf("failed to store budget item dependency: %v", err)
			return err
		}
	}
	return nil
}

func (r *RepositoryImpl) loadDependencies(ctx context.Context, itemIds []int) (map[int][]int, error) {
	deps := make(map[int][]int, len(itemIds))
	if len(itemIds) == 0 {
		return deps, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT item_id, depends_on_id FROM budget_item_dependency WHERE item_id = ANY($1) ORDER BY item_id, position`,
		itemIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var itemId, depId int
		if err := rows.Scan(&itemId, &depId); err != nil {
			return nil, err
		}
		deps[itemId] = append(deps[itemId], depId)
	}
	return deps, rows.Err()
}

func scanItem(row pgx.Row) (BudgetItem, error) {
	var item BudgetItem
	var category, calcType, itemCadence string
	var value decimal.Decimal
	var endDate *time.Time
	if err := row.Scan(
		&item.Id,
		&item.Name,
		&category,
		&calcType,
		&value,
		&itemCadence,
		&item.Priority,
		&item.IsActive,
		&endDate,
	); err != nil {
		return BudgetItem{}, err
	}
	item.Category = Category(category)
	item.CalcType = CalcType(calcType)
	item.Value = value
	item.Cadence = cadence.Cadence(itemCadence)
	if endDate != nil {
		item.EndDate = *endDate
	}
	return item, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Errorf("rollback error: %v", err)
	}
}
