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

var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
// GSTPercentage se resuelve por join con product_categories en cada lectura.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id, p.shop_id, p.category_id, p.name, p.selling_price, p.cost_price,
	       p.quantity_in_stock, p.low_stock_threshold, c.gst_percentage,
	       p.created_at, p.updated_at
	FROM products p
	JOIN product_categories c ON c.id = p.category_id`

// Create persiste un producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (id, shop_id, category_id, name, selling_price, cost_price, quantity_in_stock, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.ShopID, product.CategoryID, product.Name,
		product.SellingPrice, product.CostPrice, product.QuantityInStock,
		product.LowStockThreshold, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product already exists: %w", err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto con su GST por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.scanOne(productSelect+` WHERE p.id = $1`, id)
}

// GetByIDForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE)
// para serializar la deducción de stock dentro de la transacción.
func (r *ProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.scanOne(productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

func (r *ProductRepo) scanOne(query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.ShopID, &p.CategoryID, &p.Name, &p.SellingPrice, &p.CostPrice,
		&p.QuantityInStock, &p.LowStockThreshold, &p.GSTPercentage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByShop lista el catálogo de la tienda.
func (r *ProductRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Product, error) {
	query := productSelect + ` WHERE p.shop_id = $1 ORDER BY p.name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.ShopID, &p.CategoryID, &p.Name, &p.SellingPrice, &p.CostPrice,
			&p.QuantityInStock, &p.LowStockThreshold, &p.GSTPercentage,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// Update actualiza el producto (sin tocar el GST: vive en la categoría).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET category_id         = $2,
		    name                = $3,
		    selling_price       = $4,
		    cost_price          = $5,
		    quantity_in_stock   = $6,
		    low_stock_threshold = $7,
		    updated_at          = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CategoryID, product.Name, product.SellingPrice,
		product.CostPrice, product.QuantityInStock, product.LowStockThreshold,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija la nueva existencia del producto (nil = no controlado).
func (r *ProductRepo) UpdateStock(productID string, quantityInStock *int) error {
	query := `UPDATE products SET quantity_in_stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, quantityInStock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// CategoryRepo implementación de CategoryRepository.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría con su porcentaje GST.
func (r *CategoryRepo) Create(category *entity.ProductCategory) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	query := `
		INSERT INTO product_categories (id, shop_id, name, gst_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.ShopID, category.Name, category.GSTPercentage, category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category already exists: %w", err)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.ProductCategory, error) {
	query := `SELECT id, shop_id, name, gst_percentage, created_at FROM product_categories WHERE id = $1`
	var c entity.ProductCategory
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.ShopID, &c.Name, &c.GSTPercentage, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListByShop lista las categorías de la tienda.
func (r *CategoryRepo) ListByShop(shopID string) ([]*entity.ProductCategory, error) {
	query := `SELECT id, shop_id, name, gst_percentage, created_at FROM product_categories WHERE shop_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, shopID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*entity.ProductCategory
	for rows.Next() {
		var c entity.ProductCategory
		if err := rows.Scan(&c.ID, &c.ShopID, &c.Name, &c.GSTPercentage, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
