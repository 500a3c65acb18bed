// Package billing contiene la lógica pura de facturación: cálculo de líneas
// (descuento, GST, totales) y la máquina de estados de facturas y cotizaciones.
// No depende de persistencia ni de transporte; todo es testeable en aislamiento.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Line es el resultado del cálculo de una línea de documento.
type Line struct {
	PricePerUnit decimal.Decimal // precio unitario ya con descuento
	Subtotal     decimal.Decimal // PricePerUnit * cantidad
	GSTAmount    decimal.Decimal // GST sobre el subtotal exacto
	Total        decimal.Decimal // Subtotal + GSTAmount
}

// ComputeLine calcula una línea a partir del precio de venta, el costo, el
// porcentaje de descuento (0-100), la cantidad y el porcentaje GST.
//
// El descuento se redondea a 2 decimales (half-up) antes de restarse del
// precio; el GST se calcula sobre el subtotal exacto, sin redondeo intermedio,
// y las sumas por documento se hacen sobre valores exactos. El redondeo final
// es responsabilidad de la capa de presentación.
//
// Retorna ErrInvalidDiscount cuando el precio con descuento queda por debajo
// del costo (solo si hay costo registrado) y ErrInvalidInput ante cantidades
// o porcentajes fuera de rango.
func ComputeLine(sellingPrice, costPrice, discountPct decimal.Decimal, quantity int, gstPct decimal.Decimal) (Line, error) {
	if quantity <= 0 {
		return Line{}, domain.ErrInvalidInput
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return Line{}, domain.ErrInvalidInput
	}
	if sellingPrice.IsNegative() || gstPct.IsNegative() {
		return Line{}, domain.ErrInvalidInput
	}

	discount := sellingPrice.Mul(discountPct).Div(hundred).Round(2)
	pricePerUnit := sellingPrice.Sub(discount)

	// Piso de descuento: nunca vender por debajo del costo.
	if costPrice.IsPositive() && pricePerUnit.LessThan(costPrice) {
		return Line{}, domain.ErrInvalidDiscount
	}

	subtotal := pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
	gst := subtotal.Mul(gstPct).Div(hundred)

	return Line{
		PricePerUnit: pricePerUnit,
		Subtotal:     subtotal,
		GSTAmount:    gst,
		Total:        subtotal.Add(gst),
	}, nil
}
