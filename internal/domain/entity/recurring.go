package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency cadencia de un perfil recurrente.
type Frequency string

// Frecuencias soportadas.
const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// Valid indica si la frecuencia es una de las soportadas.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Next devuelve la fecha un paso de frecuencia después de d.
func (f Frequency) Next(d time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return d.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return d.AddDate(0, 1, 0)
	case FrequencyYearly:
		return d.AddDate(1, 0, 0)
	}
	return d
}

// RecurringInvoice es un perfil que regenera facturas automáticamente:
// plantilla de líneas + cursor de fechas (NextIssueDate). El scheduler avanza
// el cursor tras generar con éxito y elimina el perfil cuando el cursor
// rebasaría EndDate.
type RecurringInvoice struct {
	ID            string
	ShopID        string
	CustomerID    string
	Frequency     Frequency
	StartDate     time.Time
	EndDate       *time.Time
	NextIssueDate time.Time
	AutoSendEmail bool
	Items         []RecurringInvoiceItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecurringInvoiceItem línea de plantilla: producto, cantidad y descuento.
// Los precios se resuelven al momento de generar cada factura.
type RecurringInvoiceItem struct {
	ID                 string
	RecurringInvoiceID string
	ProductID          string
	Quantity           int
	DiscountPercentage decimal.Decimal
}
