package payperiod

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

var ErrPeriodNotFound = errors.New("pay period not found")

type Repository interface {
	Store(ctx context.Context, userId int, period PayPeriod, allocations []Allocation) (PayPeriod, error)
	Get(ctx context.Context, userId int, id int) (PayPeriod, error)
	GetAll(ctx context.Context, userId int) ([]PayPeriod, error)
	GetAllocations(ctx context.Context, userId int, periodId int) ([]Allocation, error)
	Update(ctx context.Context, userId int, period PayPeriod) (bool, error)
	UpdateAllocation(ctx context.Context, userId int, allocation Allocation) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, period PayPeriod, allocations []Allocation) (PayPeriod, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return PayPeriod{}, err
	}
	defer rollback(ctx, tx)

	query := `INSERT INTO pay_period (user_id, start_date, end_date, expected_net, actual_net, status)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err = tx.QueryRow(ctx, query,
		userId,
		period.StartDate,
		period.EndDate,
		period.ExpectedNet,
		period.ActualNet,
		string(period.Status),
	).Scan(&period.Id)
	if err != nil {
		log.Errorf("failed to store pay period: %v", err)
		return PayPeriod{}, err
	}

	for _, allocation := range allocations {
		query = `INSERT INTO pay_period_allocation
				 (pay_period_id, budget_item_id, budget_item_name, expected_amount, actual_amount, status)
				 VALUES ($1, $2, $3, $4, $5, $6)`
		_, err = tx.Exec(ctx, query,
			period.Id,
			allocation.BudgetItemId,
			allocation.BudgetItemName,
			allocation.ExpectedAmount,
			allocation.ActualAmount,
			string(allocation.Status),
		)
		if err != nil {
			log.Errorf("failed to store pay period allocation: %v", err)
			return PayPeriod{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return PayPeriod{}, err
	}
	return period, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, id int) (PayPeriod, error) {
	query := `SELECT id, start_date, end_date, expected_net, actual_net, status
			  FROM pay_period WHERE user_id = $1 AND id = $2`
	period, err := scanPeriod(r.db.QueryRow(ctx, query, userId, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PayPeriod{}, ErrPeriodNotFound
	} else if err != nil {
		log.Errorf("failed to get pay period: %v", err)
		return PayPeriod{}, err
	}
	return period, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int) ([]PayPeriod, error) {
	query := `SELECT id, start_date, end_date, expected_net, actual_net, status
			  FROM pay_period WHERE user_id = $1 ORDER BY start_date DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []PayPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, rows.Err()
}

func (r *RepositoryImpl) GetAllocations(ctx context.Context, userId int, periodId int) ([]Allocation, error) {
	query := `SELECT a.id, a.pay_period_id, a.budget_item_id, a.budget_item_name,
					 a.expected_amount, a.actual_amount, a.status
			  FROM pay_period_allocation a
			  JOIN pay_period p ON p.id = a.pay_period_id
			  WHERE p.user_id = $1 AND a.pay_period_id = $2
			  ORDER BY a.id`
	rows, err := r.db.Query(ctx, query, userId, periodId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocations []Allocation
	for rows.Next() {
		var allocation Allocation
		var actual *decimal.Decimal
		var status string
		err = rows.Scan(
			&allocation.Id,
			&allocation.PayPeriodId,
			&allocation.BudgetItemId,
			&allocation.BudgetItemName,
			&allocation.ExpectedAmount,
			&actual,
			&status,
		)
		if err != nil {
			return nil, err
		}
		allocation.ActualAmount = actual
		allocation.Status = AllocationStatus(status)
		allocations = append(allocations, allocation)
	}
	return allocations, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, period PayPeriod) (bool, error) {
	query := `UPDATE pay_period
			  SET start_date = $1, end_date = $2, expected_net = $3, actual_net = $4, status = $5
			  WHERE user_id = $6 AND id = $7`
	tag, err := r.db.Exec(ctx, query,
		period.StartDate,
		period.EndDate,
		period.ExpectedNet,
		period.ActualNet,
		string(period.Status),
		userId,
		period.Id,
	)
	if err != nil {
		log.Errorf("failed to update pay period: %v", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) UpdateAllocation(ctx context.Context, userId int, allocation Allocation) (bool, error) {
	query := `UPDATE pay_period_allocation a
			  SET actual_amount = $1, status = $2
			  FROM pay_period p
			  WHERE p.id = a.pay_period_id AND p.user_id = $3 AND a.id = $4`
	tag, err := r.db.Exec(ctx, query,
		allocation.ActualAmount,
		string(allocation.Status),
		userId,
		allocation.Id,
	)
	if err != nil {
		log.Errorf("failed to update pay period allocation: %v", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanPeriod(row pgx.Row) (PayPeriod, error) {
	var period PayPeriod
	var startDate, endDate time.Time
	var actual *decimal.Decimal
	var status string
	if err := row.Scan(
		&period.Id,
		&startDate,
		&endDate,
		&period.ExpectedNet,
		&actual,
		&status,
	); err != nil {
		return PayPeriod{}, err
	}
	period.StartDate = startDate
	period.EndDate = endDate
	period.ActualNet = actual
	period.Status = Status(status)
	return period, nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Errorf("failed to rollback transaction: %v", err)
	}
}
