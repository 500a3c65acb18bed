package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind clasifica el origen de una línea del libro de pagos.
// Antes el sistema distinguía por strings en PaymentMethod ("CREDIT APPLIED",
// "REFUND"); el tipo evita comparaciones de texto en la lógica de liquidación.
type PaymentKind string

// Tipos de pago.
const (
	PaymentKindCash          PaymentKind = "CASH"
	PaymentKindOnline        PaymentKind = "ONLINE"
	PaymentKindCreditApplied PaymentKind = "CREDIT_APPLIED"
	PaymentKindRefund        PaymentKind = "REFUND"
)

// Métodos sintéticos que se conservan como texto visible del pago.
const (
	MethodCreditApplied = "CREDIT APPLIED"
	MethodRefund        = "REFUND"
	MethodRazorpay      = "RAZORPAY"
)

// Payment es una línea del libro de pagos de una factura: se crea una vez y
// nunca se muta ni se borra. Amount es negativo en devoluciones. La suma de
// todas las líneas de la factura reconcilia Invoice.AmountPaid.
type Payment struct {
	ID          string
	InvoiceID   string
	Amount      decimal.Decimal
	Kind        PaymentKind
	Method      string // etiqueta libre: "CASH", "UPI", "RAZORPAY", "CREDIT APPLIED", "REFUND"...
	PaymentDate time.Time
}
