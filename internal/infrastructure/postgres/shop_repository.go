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

var _ repository.ShopRepository = (*ShopRepo)(nil)
var _ repository.UserRepository = (*UserRepo)(nil)

// ShopRepo implementación de ShopRepository (usable con pool o tx).
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

// Create persiste la tienda.
func (r *ShopRepo) Create(shop *entity.Shop) error {
	if shop.ID == "" {
		shop.ID = uuid.New().String()
	}
	query := `
		INSERT INTO shops (id, name, address, gstin, invoice_title, invoice_footer, invoice_accent_color, payments_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		shop.ID, shop.Name, nullIfEmpty(shop.Address), nullIfEmpty(shop.GSTIN),
		nullIfEmpty(shop.InvoiceTitle), nullIfEmpty(shop.InvoiceFooter),
		nullIfEmpty(shop.InvoiceAccentColor), shop.PaymentsEnabled,
		shop.CreatedAt, shop.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

// GetByID obtiene la tienda por ID.
func (r *ShopRepo) GetByID(id string) (*entity.Shop, error) {
	query := `
		SELECT id, name, COALESCE(address, ''), COALESCE(gstin, ''),
		       COALESCE(invoice_title, ''), COALESCE(invoice_footer, ''),
		       COALESCE(invoice_accent_color, ''), payments_enabled,
		       created_at, updated_at
		FROM shops WHERE id = $1`
	var s entity.Shop
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.Address, &s.GSTIN,
		&s.InvoiceTitle, &s.InvoiceFooter, &s.InvoiceAccentColor, &s.PaymentsEnabled,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return &s, nil
}

// Update actualiza los ajustes de la tienda.
func (r *ShopRepo) Update(shop *entity.Shop) error {
	query := `
		UPDATE shops
		SET name = $2, address = $3, gstin = $4, invoice_title = $5,
		    invoice_footer = $6, invoice_accent_color = $7, payments_enabled = $8,
		    updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		shop.ID, shop.Name, nullIfEmpty(shop.Address), nullIfEmpty(shop.GSTIN),
		nullIfEmpty(shop.InvoiceTitle), nullIfEmpty(shop.InvoiceFooter),
		nullIfEmpty(shop.InvoiceAccentColor), shop.PaymentsEnabled, shop.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	return nil
}

// UserRepo implementación de UserRepository.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, shop_id, email, password_hash, name, status, created_at, updated_at`

// Create persiste un usuario.
func (r *UserRepo) Create(user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.ShopID, user.Email, user.PasswordHash, user.Name,
		user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email already exists: %w", err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	return r.scanOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail busca un usuario por email (nil si no existe).
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.scanOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) scanOne(query string, args ...any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&u.ID, &u.ShopID, &u.Email, &u.PasswordHash, &u.Name, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
