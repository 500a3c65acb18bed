package billing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
)

// assertInvariante verifica AmountPaid + BalanceDue == TotalAmount + TotalGST
// y BalanceDue >= 0 sobre la respuesta.
func assertInvariante(t *testing.T, inv *dto.InvoiceDetailResponse) {
	t.Helper()
	assert.True(t, inv.AmountPaid.Add(inv.BalanceDue).Equal(inv.GrandTotal),
		"pagado %s + saldo %s debe igualar el gran total %s", inv.AmountPaid, inv.BalanceDue, inv.GrandTotal)
	assert.False(t, inv.BalanceDue.IsNegative(), "el saldo nunca es negativo")
}

// facturaBase: 2 teclados a 50.00 + 18% GST = 100 neto, 18 GST, 118 total.
func facturaBase(status string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID: testCustomerID,
		Status:     status,
		Items: []dto.DocumentItemRequest{
			{ProductID: testProductID, Quantity: 2},
		},
	}
}

func TestCreateInvoice_PendienteNoTocaStock(t *testing.T) {
	env := newTestEnv()

	inv, err := env.uc.CreateInvoice(context.Background(), testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	assert.Equal(t, "PENDING", inv.Status)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, inv.TotalGST.Equal(decimal.NewFromInt(18)))
	assert.True(t, inv.AmountPaid.IsZero())
	assert.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(118)))
	assertInvariante(t, inv)
	assert.Equal(t, 5, env.products.stock(testProductID), "PENDING no descuenta inventario")
}

func TestCreateInvoice_PagadaDescuentaStock(t *testing.T) {
	env := newTestEnv()

	in := facturaBase("PAID")
	in.PaymentMethod = "CASH"
	inv, err := env.uc.CreateInvoice(context.Background(), testShopID, in)
	require.NoError(t, err)

	assert.Equal(t, "PAID", inv.Status)
	assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(118)))
	assert.True(t, inv.BalanceDue.IsZero())
	assertInvariante(t, inv)
	assert.Equal(t, 3, env.products.stock(testProductID), "2 unidades vendidas: 5 - 2 = 3")
	require.Len(t, inv.Payments, 1)
	assert.Equal(t, "CASH", inv.Payments[0].PaymentMethod)
}

func TestCreateInvoice_ProductoSinStockControladoNoValida(t *testing.T) {
	env := newTestEnv()

	in := dto.CreateInvoiceRequest{
		CustomerID: testCustomerID,
		Status:     "PAID",
		Items:      []dto.DocumentItemRequest{{ProductID: testProductID2, Quantity: 100}},
	}
	inv, err := env.uc.CreateInvoice(context.Background(), testShopID, in)
	require.NoError(t, err, "el stock no controlado es ilimitado")
	assert.Equal(t, "PAID", inv.Status)
}

func TestCreateInvoice_StockInsuficienteAbortaTodo(t *testing.T) {
	env := newTestEnv()

	in := dto.CreateInvoiceRequest{
		CustomerID: testCustomerID,
		Status:     "PENDING",
		Items: []dto.DocumentItemRequest{
			{ProductID: testProductID2, Quantity: 1},
			{ProductID: testProductID, Quantity: 6}, // solo hay 5
		},
	}
	_, err := env.uc.CreateInvoice(context.Background(), testShopID, in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, env.invoices.invoices, "una línea sin stock aborta la factura completa")
}

func TestCreateInvoice_FalloDeRepoAlDescontarStockAborta(t *testing.T) {
	env := newTestEnv()
	dbErr := errors.New("db: connection reset")
	env.failProductLock(dbErr)

	in := facturaBase("PAID")
	in.PaymentMethod = "CASH"
	_, err := env.uc.CreateInvoice(context.Background(), testShopID, in)
	require.ErrorIs(t, err, dbErr, "un fallo al bloquear el producto aborta la transacción")
	assert.Equal(t, 5, env.products.stock(testProductID), "el inventario queda intacto")
}

func TestUpdateStatus_RevalidaStockBajoBloqueo(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	// Otra venta agotó la existencia entre la emisión y el cobro.
	uno := 1
	require.NoError(t, env.products.UpdateStock(testProductID, &uno))

	_, err = env.uc.UpdateStatus(ctx, testShopID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "PAID"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, env.products.stock(testProductID), "el inventario nunca queda negativo")
}

func TestCreateInvoice_SelectorDeClienteExcluyente(t *testing.T) {
	env := newTestEnv()

	ambos := facturaBase("PENDING")
	ambos.NewCustomerName = "Otro Cliente"
	_, err := env.uc.CreateInvoice(context.Background(), testShopID, ambos)
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerRef)

	ninguno := facturaBase("PENDING")
	ninguno.CustomerID = ""
	_, err = env.uc.CreateInvoice(context.Background(), testShopID, ninguno)
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerRef)
}

func TestCreateInvoice_ClienteNuevoSeCreaEnLaMismaTx(t *testing.T) {
	env := newTestEnv()

	in := facturaBase("PENDING")
	in.CustomerID = ""
	in.NewCustomerName = "Carlos Ruiz"
	in.NewCustomerPhone = "+91 98765 43210"
	inv, err := env.uc.CreateInvoice(context.Background(), testShopID, in)
	require.NoError(t, err)

	assert.Equal(t, "Carlos Ruiz", inv.CustomerName)
	created, err := env.customers.GetByID(inv.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, testShopID, created.ShopID)
}

func TestCreateInvoice_AplicaCreditoDelCliente(t *testing.T) {
	env := newTestEnv()
	_ = env.credits.Upsert(&entity.CustomerCredit{
		ID: "credit-1", ShopID: testShopID, CustomerID: testCustomerID,
		Balance: decimal.NewFromInt(50),
	})

	in := facturaBase("PENDING")
	in.ApplyCredit = true
	inv, err := env.uc.CreateInvoice(context.Background(), testShopID, in)
	require.NoError(t, err)

	assert.Equal(t, "PARTIALLY_PAID", inv.Status)
	assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(50)))
	assert.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(68)))
	assertInvariante(t, inv)
	assert.True(t, env.credits.balance(testCustomerID).IsZero(), "el crédito aplicado se debita")
	require.Len(t, inv.Payments, 1)
	assert.Equal(t, string(entity.PaymentKindCreditApplied), inv.Payments[0].Kind)
}

func TestCreateInvoice_CreditoCubreTodoPromueveAPagada(t *testing.T) {
	env := newTestEnv()
	_ = env.credits.Upsert(&entity.CustomerCredit{
		ID: "credit-1", ShopID: testShopID, CustomerID: testCustomerID,
		Balance: decimal.NewFromInt(200),
	})

	in := facturaBase("PENDING")
	in.ApplyCredit = true
	inv, err := env.uc.CreateInvoice(context.Background(), testShopID, in)
	require.NoError(t, err)

	assert.Equal(t, "PAID", inv.Status)
	assert.True(t, inv.BalanceDue.IsZero())
	assertInvariante(t, inv)
	assert.Equal(t, 3, env.products.stock(testProductID), "al quedar PAID descuenta stock")
	// Solo se consume lo necesario: 200 - 118 = 82.
	assert.True(t, env.credits.balance(testCustomerID).Equal(decimal.NewFromInt(82)))
}

func TestCreateInvoice_EsperandoPagoNoLiquida(t *testing.T) {
	env := newTestEnv()

	inv, err := env.uc.CreateInvoice(context.Background(), testShopID, facturaBase("AWAITING_PAYMENT"))
	require.NoError(t, err)

	assert.Equal(t, "AWAITING_PAYMENT", inv.Status)
	assert.True(t, inv.AmountPaid.IsZero())
	assert.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(118)))
	assert.Empty(t, inv.Payments)
	assert.Equal(t, 5, env.products.stock(testProductID))
}

func TestRecordPayment_ParcialYLuegoTotal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	parcial, err := env.uc.RecordPayment(ctx, testShopID, inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(50), PaymentMethod: "UPI",
	})
	require.NoError(t, err)
	assert.Equal(t, "PARTIALLY_PAID", parcial.Status)
	assert.True(t, parcial.BalanceDue.Equal(decimal.NewFromInt(68)))
	assertInvariante(t, parcial)
	assert.Equal(t, 5, env.products.stock(testProductID))

	total, err := env.uc.RecordPayment(ctx, testShopID, inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(68), PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", total.Status)
	assert.True(t, total.BalanceDue.IsZero())
	assertInvariante(t, total)
	assert.Equal(t, 3, env.products.stock(testProductID), "al liquidar descuenta stock")
	assert.Len(t, total.Payments, 2)
}

func TestRecordPayment_SobrepagoComoCredito(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	out, err := env.uc.RecordPayment(ctx, testShopID, inv.ID, dto.RecordPaymentRequest{
		Amount:            decimal.NewFromInt(150),
		PaymentMethod:     "CASH",
		OverpaymentChoice: dto.OverpaymentCredit,
	})
	require.NoError(t, err)

	assert.Equal(t, "PAID", out.Status)
	assert.True(t, out.AmountPaid.Equal(decimal.NewFromInt(118)), "el pagado se recorta al gran total")
	assertInvariante(t, out)
	assert.True(t, env.credits.balance(testCustomerID).Equal(decimal.NewFromInt(32)),
		"el exceso 150 - 118 = 32 queda como saldo a favor")
	assert.Len(t, out.Payments, 1, "con crédito no se agrega línea de devolución")
}

func TestRecordPayment_SobrepagoComoDevolucion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	out, err := env.uc.RecordPayment(ctx, testShopID, inv.ID, dto.RecordPaymentRequest{
		Amount:        decimal.NewFromInt(150),
		PaymentMethod: "CASH",
		// default: REFUND
	})
	require.NoError(t, err)

	assert.Equal(t, "PAID", out.Status)
	assertInvariante(t, out)
	assert.True(t, env.credits.balance(testCustomerID).IsZero())
	require.Len(t, out.Payments, 2)
	// La línea de devolución es negativa y deja el libro cuadrado.
	neto := decimal.Zero
	for _, p := range out.Payments {
		neto = neto.Add(p.Amount)
	}
	assert.True(t, neto.Equal(decimal.NewFromInt(118)))
}

func TestRecordPayment_RechazaFacturaPagadaOCancelada(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	pagada, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PAID"))
	require.NoError(t, err)
	_, err = env.uc.RecordPayment(ctx, testShopID, pagada.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(10), PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)

	pendiente, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)
	_, err = env.uc.UpdateStatus(ctx, testShopID, pendiente.ID, dto.UpdateInvoiceStatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)
	_, err = env.uc.RecordPayment(ctx, testShopID, pendiente.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(10), PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRecordPayment_MontoDebeSerPositivo(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	_, err = env.uc.RecordPayment(ctx, testShopID, inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.Zero, PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.uc.RecordPayment(ctx, testShopID, inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(-5), PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordPayment_OtraTiendaProhibido(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	_, err = env.uc.RecordPayment(ctx, "shop-ajena", inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(10), PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus_ReentrarAPagadaNoDescuentaDosVeces(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PAID"))
	require.NoError(t, err)
	require.Equal(t, 3, env.products.stock(testProductID))

	// Anulación manual y vuelta a PAID: el stock ya fue descontado.
	_, err = env.uc.UpdateStatus(ctx, testShopID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "PENDING"})
	require.NoError(t, err)
	out, err := env.uc.UpdateStatus(ctx, testShopID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "PAID"})
	require.NoError(t, err)

	assert.Equal(t, "PAID", out.Status)
	assert.Equal(t, 3, env.products.stock(testProductID), "la deducción ocurre a lo sumo una vez")
}

func TestUpdateStatus_RegresarAPendienteRederivaDelLibro(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)
	_, err = env.uc.RecordPayment(ctx, testShopID, inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(40), PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	out, err := env.uc.UpdateStatus(ctx, testShopID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "PENDING"})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", out.Status)
	assert.True(t, out.AmountPaid.Equal(decimal.NewFromInt(40)), "el pago registrado no se pierde")
	assert.True(t, out.BalanceDue.Equal(decimal.NewFromInt(78)))
	assertInvariante(t, out)
}

func TestUpdateStatus_TransicionIlegal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)
	_, err = env.uc.UpdateStatus(ctx, testShopID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)

	_, err = env.uc.UpdateStatus(ctx, testShopID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "PAID"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)
}

func TestUpdateStatus_MismoEstadoEsNoOp(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PENDING"))
	require.NoError(t, err)

	out, err := env.uc.UpdateStatus(ctx, testShopID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: "PENDING"})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", out.Status)
}

func TestCreatePaymentLink_RequiereCobrosHabilitados(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("AWAITING_PAYMENT"))
	require.NoError(t, err)

	link, err := env.uc.CreatePaymentLink(ctx, testShopID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://rzp.io/l/test", link.URL)

	shop, _ := env.shops.GetByID(testShopID)
	shop.PaymentsEnabled = false
	_ = env.shops.Update(shop)
	_, err = env.uc.CreatePaymentLink(ctx, testShopID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreatePaymentLink_FacturaPagada(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("PAID"))
	require.NoError(t, err)

	_, err = env.uc.CreatePaymentLink(ctx, testShopID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

// webhookPayload arma el evento payment_link.paid con el monto en paise.
func webhookPayload(invoiceID string, amountPaise int64) []byte {
	return []byte(fmt.Sprintf(`{
		"event": "payment_link.paid",
		"payload": {
			"payment_link": {"entity": {"id": "plink_1", "reference_id": %q}},
			"payment": {"entity": {"id": "pay_1", "amount": %d, "method": "upi"}}
		}
	}`, invoiceID, amountPaise))
}

func TestWebhook_FirmaInvalida(t *testing.T) {
	env := newTestEnv()
	env.gateway.validSignature = false

	err := env.uc.ReconcileGatewayWebhook(context.Background(), webhookPayload("x", 100), "bad-sig")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestWebhook_EventoDesconocidoSeIgnora(t *testing.T) {
	env := newTestEnv()

	err := env.uc.ReconcileGatewayWebhook(context.Background(), []byte(`{"event": "payment.captured"}`), "sig")
	assert.NoError(t, err)
}

func TestWebhook_FacturaDesconocidaSeConfirma(t *testing.T) {
	env := newTestEnv()

	err := env.uc.ReconcileGatewayWebhook(context.Background(), webhookPayload("no-existe", 11800), "sig")
	assert.NoError(t, err, "la pasarela no debe reintentar por una referencia desconocida")
}

func TestWebhook_ConciliaPagoCompleto(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("AWAITING_PAYMENT"))
	require.NoError(t, err)

	err = env.uc.ReconcileGatewayWebhook(ctx, webhookPayload(inv.ID, 11800), "sig")
	require.NoError(t, err)

	out, err := env.uc.GetInvoice(ctx, testShopID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)
	assert.True(t, out.AmountPaid.Equal(decimal.NewFromInt(118)))
	assertInvariante(t, out)
	assert.Equal(t, 3, env.products.stock(testProductID))
}

func TestWebhook_ReintentoDuplicadoNoFalla(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv, err := env.uc.CreateInvoice(ctx, testShopID, facturaBase("AWAITING_PAYMENT"))
	require.NoError(t, err)

	require.NoError(t, env.uc.ReconcileGatewayWebhook(ctx, webhookPayload(inv.ID, 11800), "sig"))
	require.NoError(t, env.uc.ReconcileGatewayWebhook(ctx, webhookPayload(inv.ID, 11800), "sig"),
		"el reintento de la pasarela se confirma sin reaplicar")

	out, err := env.uc.GetInvoice(ctx, testShopID, inv.ID)
	require.NoError(t, err)
	assert.True(t, out.AmountPaid.Equal(decimal.NewFromInt(118)))
	assert.Equal(t, 3, env.products.stock(testProductID), "el stock no se descuenta dos veces")
}
