package employees

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/shared"
)

type Repository interface {
	List(ctx context.Context, storeID string) ([]Employee, error)
	Get(ctx context.Context, storeID, id string) (Employee, error)
	// FindByEmail returns every employee record matching the email,
	// across all stores. Sign-in uses it to resolve which stores an
	// email belongs to.
	FindByEmail(ctx context.Context, email string) ([]Employee, error)
	Create(ctx context.Context, employee Employee) (Employee, error)
	Update(ctx context.Context, employee Employee) error
	Delete(ctx context.Context, storeID, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const employeeColumns = `id, store_id, name, email, active, compensation_type, commission_percent, salary, permissions, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var permissions []byte
	err := row.Scan(&e.ID, &e.StoreID, &e.Name, &e.Email, &e.Active, &e.CompensationType,
		&e.CommissionPercent, &e.Salary, &permissions, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Employee{}, err
	}
	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &e.Permissions); err != nil {
			return Employee{}, err
		}
	}
	return e, nil
}

func (r *repository) List(ctx context.Context, storeID string) ([]Employee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE store_id = $1 ORDER BY name ASC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, storeID, id string) (Employee, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE store_id = $1 AND id = $2`, storeID, id)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, shared.ErrNotFound
	}
	return e, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) ([]Employee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repository) Create(ctx context.Context, employee Employee) (Employee, error) {
	permissions, err := json.Marshal(employee.Permissions)
	if err != nil {
		return Employee{}, err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(ctx,
		`INSERT INTO employees (id, store_id, name, email, active, compensation_type, commission_percent, salary, permissions, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		employee.ID, employee.StoreID, employee.Name, employee.Email, employee.Active, employee.CompensationType,
		employee.CommissionPercent, employee.Salary, permissions, now)
	if err != nil {
		return Employee{}, translateUnique(err)
	}
	employee.CreatedAt = now
	employee.UpdatedAt = now
	return employee, nil
}

func (r *repository) Update(ctx context.Context, employee Employee) error {
	permissions, err := json.Marshal(employee.Permissions)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET name = $3, email = $4, active = $5, compensation_type = $6, commission_percent = $7, salary = $8, permissions = $9, updated_at = $10
		 WHERE store_id = $1 AND id = $2`,
		employee.StoreID, employee.ID, employee.Name, employee.Email, employee.Active, employee.CompensationType,
		employee.CommissionPercent, employee.Salary, permissions, time.Now().UTC())
	if err != nil {
		return translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, storeID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}
