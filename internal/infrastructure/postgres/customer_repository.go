package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)
var _ repository.CustomerCreditRepository = (*CustomerCreditRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customers (id, shop_id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.ShopID, customer.Name,
		nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone),
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `
		SELECT id, shop_id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at
		FROM customers WHERE id = $1`
	var c entity.Customer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.ShopID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ListByShop lista los clientes de la tienda.
func (r *CustomerRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT id, shop_id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at
		FROM customers WHERE shop_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.ShopID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

// Update actualiza los datos de contacto del cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone), customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete elimina el cliente.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// CustomerCreditRepo implementación del saldo a favor (una fila por cliente).
type CustomerCreditRepo struct {
	q Querier
}

// NewCustomerCreditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerCreditRepository(q Querier) *CustomerCreditRepo {
	return &CustomerCreditRepo{q: q}
}

const creditSelect = `
	SELECT id, shop_id, customer_id, balance, created_at, updated_at
	FROM customer_credits WHERE customer_id = $1`

// GetByCustomer obtiene el saldo del cliente (nil si nunca ha tenido crédito).
func (r *CustomerCreditRepo) GetByCustomer(customerID string) (*entity.CustomerCredit, error) {
	return r.scanOne(creditSelect, customerID)
}

// GetByCustomerForUpdate bloquea la fila de crédito (SELECT FOR UPDATE) para
// que débito de crédito e inserción del pago sintético sean atómicos.
func (r *CustomerCreditRepo) GetByCustomerForUpdate(customerID string) (*entity.CustomerCredit, error) {
	return r.scanOne(creditSelect+` FOR UPDATE`, customerID)
}

func (r *CustomerCreditRepo) scanOne(query string, args ...any) (*entity.CustomerCredit, error) {
	var c entity.CustomerCredit
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&c.ID, &c.ShopID, &c.CustomerID, &c.Balance, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer credit: %w", err)
	}
	return &c, nil
}

// Upsert crea o reemplaza el saldo del cliente (una fila por cliente).
func (r *CustomerCreditRepo) Upsert(credit *entity.CustomerCredit) error {
	if credit.ID == "" {
		credit.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customer_credits (id, shop_id, customer_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (customer_id)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		credit.ID, credit.ShopID, credit.CustomerID, credit.Balance, credit.CreatedAt, credit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert customer credit: %w", err)
	}
	return nil
}
