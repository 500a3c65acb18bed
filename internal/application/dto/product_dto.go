package dto

import "github.com/shopspring/decimal"

// ProductRequest alta/actualización de producto.
// QuantityInStock nil = stock no controlado (ilimitado).
type ProductRequest struct {
	CategoryID        string          `json:"category_id"`
	Name              string          `json:"name"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	QuantityInStock   *int            `json:"quantity_in_stock,omitempty"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
}

// ProductResponse producto con su GST resuelto por categoría.
type ProductResponse struct {
	ID                string          `json:"id"`
	CategoryID        string          `json:"category_id"`
	Name              string          `json:"name"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	QuantityInStock   *int            `json:"quantity_in_stock,omitempty"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
	GSTPercentage     decimal.Decimal `json:"gst_percentage"`
}

// CategoryRequest alta de categoría con su porcentaje GST.
type CategoryRequest struct {
	Name          string          `json:"name"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
}

// CategoryResponse categoría persistida.
type CategoryResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
}
