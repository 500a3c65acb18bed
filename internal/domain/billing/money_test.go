package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/billing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLine_SinDescuento(t *testing.T) {
	line, err := billing.ComputeLine(dec("100"), dec("60"), decimal.Zero, 2, dec("18"))
	require.NoError(t, err)

	assert.True(t, line.PricePerUnit.Equal(dec("100")), "precio unitario sin descuento")
	assert.True(t, line.Subtotal.Equal(dec("200")))
	assert.True(t, line.GSTAmount.Equal(dec("36")), "GST 18%% sobre 200")
	assert.True(t, line.Total.Equal(dec("236")))
}

func TestComputeLine_DescuentoRedondeaHalfUp(t *testing.T) {
	// 33.33 * 15% = 4.9995 → redondea a 5.00; precio queda en 28.33
	line, err := billing.ComputeLine(dec("33.33"), decimal.Zero, dec("15"), 1, dec("5"))
	require.NoError(t, err)

	assert.True(t, line.PricePerUnit.Equal(dec("28.33")), "got %s", line.PricePerUnit)
	// GST sobre el subtotal exacto, sin redondeo intermedio: 28.33 * 0.05 = 1.4165
	assert.True(t, line.GSTAmount.Equal(dec("1.4165")), "got %s", line.GSTAmount)
}

func TestComputeLine_DescuentoBajoElCosto(t *testing.T) {
	// 100 con 50% de descuento = 50, por debajo del costo 60.
	_, err := billing.ComputeLine(dec("100"), dec("60"), dec("50"), 1, dec("18"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)

	// Sin costo registrado (cero) el piso no aplica.
	_, err = billing.ComputeLine(dec("100"), decimal.Zero, dec("99"), 1, dec("18"))
	assert.NoError(t, err)
}

func TestComputeLine_EntradasInvalidas(t *testing.T) {
	cases := []struct {
		name     string
		selling  decimal.Decimal
		discount decimal.Decimal
		qty      int
		gst      decimal.Decimal
	}{
		{"cantidad cero", dec("10"), decimal.Zero, 0, dec("5")},
		{"cantidad negativa", dec("10"), decimal.Zero, -1, dec("5")},
		{"descuento negativo", dec("10"), dec("-1"), 1, dec("5")},
		{"descuento mayor a 100", dec("10"), dec("101"), 1, dec("5")},
		{"precio negativo", dec("-10"), decimal.Zero, 1, dec("5")},
		{"gst negativo", dec("10"), decimal.Zero, 1, dec("-5")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := billing.ComputeLine(tc.selling, decimal.Zero, tc.discount, tc.qty, tc.gst)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestComputeLine_SumaPorDocumentoSinDeriva(t *testing.T) {
	// Tres líneas idénticas: la suma exacta de GST no debe diferir de 3x el GST
	// de una línea (decimal exacto, sin float).
	line, err := billing.ComputeLine(dec("19.99"), decimal.Zero, dec("7"), 3, dec("12"))
	require.NoError(t, err)

	sum := line.GSTAmount.Add(line.GSTAmount).Add(line.GSTAmount)
	assert.True(t, sum.Equal(line.GSTAmount.Mul(dec("3"))))
}
