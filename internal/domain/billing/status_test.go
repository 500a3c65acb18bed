package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invogen/billing-api/internal/domain/billing"
	"github.com/invogen/billing-api/internal/domain/entity"
)

func TestCanTransitionInvoice(t *testing.T) {
	cases := []struct {
		from, to entity.InvoiceStatus
		ok       bool
	}{
		{entity.InvoiceAwaitingPayment, entity.InvoicePending, true},
		{entity.InvoiceAwaitingPayment, entity.InvoicePaid, true},
		{entity.InvoiceAwaitingPayment, entity.InvoiceCancelled, true},
		{entity.InvoicePending, entity.InvoicePartiallyPaid, true},
		{entity.InvoicePartiallyPaid, entity.InvoicePending, true},
		{entity.InvoicePartiallyPaid, entity.InvoicePaid, true},
		{entity.InvoicePaid, entity.InvoicePending, true},
		{entity.InvoicePaid, entity.InvoicePaid, false}, // re-entrar a PAID no es transición
		{entity.InvoiceCancelled, entity.InvoicePaid, false},
		{entity.InvoicePending, entity.InvoiceAwaitingPayment, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, billing.CanTransitionInvoice(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionQuote(t *testing.T) {
	cases := []struct {
		from, to entity.QuoteStatus
		ok       bool
	}{
		{entity.QuoteDraft, entity.QuoteSent, true},
		{entity.QuoteDraft, entity.QuoteConverted, true},
		{entity.QuoteSent, entity.QuoteAccepted, true},
		{entity.QuoteAccepted, entity.QuoteConverted, true},
		// CONVERTED es terminal: ninguna salida.
		{entity.QuoteConverted, entity.QuoteDraft, false},
		{entity.QuoteConverted, entity.QuoteConverted, false},
		// Nunca hacia atrás.
		{entity.QuoteSent, entity.QuoteDraft, false},
		{entity.QuoteAccepted, entity.QuoteSent, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, billing.CanTransitionQuote(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, billing.ValidInvoiceStatus(entity.InvoicePaid))
	assert.False(t, billing.ValidInvoiceStatus("PAGADA"))
	assert.True(t, billing.ValidQuoteStatus(entity.QuoteAccepted))
	assert.False(t, billing.ValidQuoteStatus(""))
}
