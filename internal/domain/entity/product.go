package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory agrupa productos y define el porcentaje GST que les aplica.
type ProductCategory struct {
	ID            string
	ShopID        string
	Name          string
	GSTPercentage decimal.Decimal // 0, 5, 12, 18, 28...
	CreatedAt     time.Time
}

// Product representa un producto del catálogo de la tienda.
// CostPrice en cero significa "sin costo registrado" (no aplica piso de descuento).
// QuantityInStock nil significa stock no controlado (ilimitado).
type Product struct {
	ID                string
	ShopID            string
	CategoryID        string
	Name              string
	SellingPrice      decimal.Decimal
	CostPrice         decimal.Decimal
	QuantityInStock   *int
	LowStockThreshold *int
	GSTPercentage     decimal.Decimal // cargado por join con la categoría
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StockTracked indica si el producto controla existencias.
func (p *Product) StockTracked() bool {
	return p.QuantityInStock != nil
}
