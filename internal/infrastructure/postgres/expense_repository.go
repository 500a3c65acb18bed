package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto.
func (r *ExpenseRepo) Create(expense *entity.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	query := `
		INSERT INTO expenses (id, shop_id, description, amount, date, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.ShopID, expense.Description, expense.Amount,
		expense.Date, nullIfEmpty(expense.Category), expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	query := `
		SELECT id, shop_id, description, amount, date, COALESCE(category, ''), created_at, updated_at
		FROM expenses WHERE id = $1`
	var e entity.Expense
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ShopID, &e.Description, &e.Amount, &e.Date, &e.Category, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// ListByShop lista los gastos de la tienda, más recientes primero.
func (r *ExpenseRepo) ListByShop(shopID string) ([]*entity.Expense, error) {
	query := `
		SELECT id, shop_id, description, amount, date, COALESCE(category, ''), created_at, updated_at
		FROM expenses WHERE shop_id = $1 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, shopID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.ShopID, &e.Description, &e.Amount, &e.Date, &e.Category, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, &e)
	}
	return expenses, rows.Err()
}

// Update actualiza un gasto.
func (r *ExpenseRepo) Update(expense *entity.Expense) error {
	query := `
		UPDATE expenses
		SET description = $2, amount = $3, date = $4, category = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.Description, expense.Amount, expense.Date,
		nullIfEmpty(expense.Category), expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete elimina un gasto.
func (r *ExpenseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// SumByShopAndDateRange suma los gastos del período (cero si no hay filas).
func (r *ExpenseRepo) SumByShopAndDateRange(shopID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses WHERE shop_id = $1 AND date >= $2 AND date <= $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, shopID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}
