package billing_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: implementan los puertos de repositorio sin Postgres.
// Las "transacciones" del fakeTxRunner no hacen rollback; los tests verifican
// caminos felices y rechazos que ocurren antes de cualquier escritura.
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	cp := *item
	f.items[item.InvoiceID] = append(f.items[item.InvoiceID], &cp)
	return nil
}

func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	if _, ok := f.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return f.GetByID(id)
}

func (f *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	return f.items[invoiceID], nil
}

func (f *fakeInvoiceRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if inv.ShopID == shopID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) FindForReminder(cutoff time.Time) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if inv.Status != entity.InvoicePending && inv.Status != entity.InvoicePartiallyPaid {
			continue
		}
		if inv.IssueDate.After(cutoff) {
			continue
		}
		if inv.LastReminderSent != nil && inv.LastReminderSent.After(cutoff) {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments []*entity.Payment
}

func (f *fakePaymentRepo) Create(p *entity.Payment) error {
	cp := *p
	f.payments = append(f.payments, &cp)
	return nil
}

func (f *fakePaymentRepo) GetByID(id string) (*entity.Payment, error) {
	for _, p := range f.payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) ListByInvoice(invoiceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	if p.QuantityInStock != nil {
		qty := *p.QuantityInStock
		cp.QuantityInStock = &qty
	}
	return &cp, nil
}

func (f *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return f.GetByID(id)
}

func (f *fakeProductRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		if p.ShopID == shopID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) UpdateStock(productID string, quantityInStock *int) error {
	p, ok := f.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if quantityInStock == nil {
		p.QuantityInStock = nil
		return nil
	}
	qty := *quantityInStock
	p.QuantityInStock = &qty
	return nil
}

func (f *fakeProductRepo) Delete(id string) error {
	delete(f.products, id)
	return nil
}

// stock devuelve la existencia actual de un producto (helper de aserción).
func (f *fakeProductRepo) stock(id string) int {
	return *f.products[id].QuantityInStock
}

// lockFailProductRepo delega en el repo en memoria pero falla el bloqueo de
// fila, simulando una caída de la base a mitad de transacción.
type lockFailProductRepo struct {
	*fakeProductRepo
	err error
}

func (f *lockFailProductRepo) GetByIDForUpdate(string) (*entity.Product, error) {
	return nil, f.err
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (f *fakeCustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomerRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range f.customers {
		if c.ShopID == shopID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) Update(c *entity.Customer) error {
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *fakeCustomerRepo) Delete(id string) error {
	delete(f.customers, id)
	return nil
}

type fakeCreditRepo struct {
	credits map[string]*entity.CustomerCredit // clave: customerID
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{credits: make(map[string]*entity.CustomerCredit)}
}

func (f *fakeCreditRepo) GetByCustomer(customerID string) (*entity.CustomerCredit, error) {
	c, ok := f.credits[customerID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCreditRepo) GetByCustomerForUpdate(customerID string) (*entity.CustomerCredit, error) {
	return f.GetByCustomer(customerID)
}

func (f *fakeCreditRepo) Upsert(credit *entity.CustomerCredit) error {
	cp := *credit
	f.credits[credit.CustomerID] = &cp
	return nil
}

// balance devuelve el saldo a favor actual (cero si no hay fila).
func (f *fakeCreditRepo) balance(customerID string) decimal.Decimal {
	c, ok := f.credits[customerID]
	if !ok {
		return decimal.Zero
	}
	return c.Balance
}

type fakeQuoteRepo struct {
	quotes map[string]*entity.Quote
	items  map[string][]*entity.QuoteItem
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{
		quotes: make(map[string]*entity.Quote),
		items:  make(map[string][]*entity.QuoteItem),
	}
}

func (f *fakeQuoteRepo) Create(q *entity.Quote) error {
	cp := *q
	f.quotes[q.ID] = &cp
	return nil
}

func (f *fakeQuoteRepo) CreateItem(item *entity.QuoteItem) error {
	cp := *item
	f.items[item.QuoteID] = append(f.items[item.QuoteID], &cp)
	return nil
}

func (f *fakeQuoteRepo) Update(q *entity.Quote) error {
	if _, ok := f.quotes[q.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *q
	f.quotes[q.ID] = &cp
	return nil
}

func (f *fakeQuoteRepo) GetByID(id string) (*entity.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuoteRepo) GetByIDForUpdate(id string) (*entity.Quote, error) {
	return f.GetByID(id)
}

func (f *fakeQuoteRepo) GetItemsByQuoteID(quoteID string) ([]*entity.QuoteItem, error) {
	return f.items[quoteID], nil
}

func (f *fakeQuoteRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Quote, error) {
	var out []*entity.Quote
	for _, q := range f.quotes {
		if q.ShopID == shopID {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeShopRepo struct {
	shops map[string]*entity.Shop
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{shops: make(map[string]*entity.Shop)}
}

func (f *fakeShopRepo) Create(s *entity.Shop) error {
	cp := *s
	f.shops[s.ID] = &cp
	return nil
}

func (f *fakeShopRepo) GetByID(id string) (*entity.Shop, error) {
	s, ok := f.shops[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShopRepo) Update(s *entity.Shop) error {
	cp := *s
	f.shops[s.ID] = &cp
	return nil
}

// fakeTxRunner ejecuta fn directamente sobre los mismos repos en memoria.
type fakeTxRunner struct {
	repos billing.BillingRepos
}

func (f *fakeTxRunner) RunBilling(_ context.Context, fn func(r billing.BillingRepos) error) error {
	return fn(f.repos)
}

type fakeNotifier struct {
	invoicesSent  []string
	receiptsSent  []string
	remindersSent []string
}

func (f *fakeNotifier) SendInvoiceEmail(_ context.Context, toEmail string, _ *entity.Invoice, _ []byte) error {
	f.invoicesSent = append(f.invoicesSent, toEmail)
	return nil
}

func (f *fakeNotifier) SendReceiptEmail(_ context.Context, toEmail string, _ *entity.Invoice, _ []byte) error {
	f.receiptsSent = append(f.receiptsSent, toEmail)
	return nil
}

func (f *fakeNotifier) SendPaymentReminder(_ context.Context, toEmail string, _ *entity.Invoice) error {
	f.remindersSent = append(f.remindersSent, toEmail)
	return nil
}

type fakeGateway struct {
	url            string
	validSignature bool
	linkRequests   int
}

func (f *fakeGateway) CreatePaymentLink(_ context.Context, _ *entity.Invoice, _ *entity.Customer, _ decimal.Decimal) (string, error) {
	f.linkRequests++
	return f.url, nil
}

func (f *fakeGateway) VerifyWebhookSignature(_ []byte, _ string) bool {
	return f.validSignature
}

type fakePDFRenderer struct{}

func (fakePDFRenderer) RenderInvoice(_ *entity.Shop, _ *entity.Customer, _ *entity.Invoice, _ []*entity.InvoiceItem) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: una tienda con un cliente y dos productos.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testShopID     = "shop-1"
	testCustomerID = "customer-1"
	testProductID  = "product-1"  // 50.00 + 18% GST, stock 5
	testProductID2 = "product-2"  // 20.00 sin GST, stock no controlado
)

type testEnv struct {
	invoices  *fakeInvoiceRepo
	payments  *fakePaymentRepo
	products  *fakeProductRepo
	customers *fakeCustomerRepo
	credits   *fakeCreditRepo
	quotes    *fakeQuoteRepo
	shops     *fakeShopRepo
	notifier  *fakeNotifier
	gateway   *fakeGateway
	uc        *billing.InvoiceUseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		invoices:  newFakeInvoiceRepo(),
		payments:  &fakePaymentRepo{},
		products:  newFakeProductRepo(),
		customers: newFakeCustomerRepo(),
		credits:   newFakeCreditRepo(),
		quotes:    newFakeQuoteRepo(),
		shops:     newFakeShopRepo(),
		notifier:  &fakeNotifier{},
		gateway:   &fakeGateway{url: "https://rzp.io/l/test", validSignature: true},
	}

	_ = env.shops.Create(&entity.Shop{ID: testShopID, Name: "Tienda Central", PaymentsEnabled: true})
	_ = env.customers.Create(&entity.Customer{ID: testCustomerID, ShopID: testShopID, Name: "Ana Pérez", Email: "ana@example.com"})

	stock := 5
	_ = env.products.Create(&entity.Product{
		ID:              testProductID,
		ShopID:          testShopID,
		Name:            "Teclado mecánico",
		SellingPrice:    decimal.NewFromInt(50),
		CostPrice:       decimal.NewFromInt(30),
		QuantityInStock: &stock,
		GSTPercentage:   decimal.NewFromInt(18),
	})
	_ = env.products.Create(&entity.Product{
		ID:           testProductID2,
		ShopID:       testShopID,
		Name:         "Servicio de instalación",
		SellingPrice: decimal.NewFromInt(20),
	})

	txRunner := &fakeTxRunner{repos: billing.BillingRepos{
		Invoices:  env.invoices,
		Payments:  env.payments,
		Products:  env.products,
		Customers: env.customers,
		Credits:   env.credits,
		Quotes:    env.quotes,
	}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	env.uc = billing.NewInvoiceUseCase(
		txRunner, env.shops, env.customers, env.credits,
		env.products, env.invoices, env.payments,
		fakePDFRenderer{}, env.notifier, env.gateway, log,
	)
	return env
}

// failProductLock reconstruye el caso de uso con un repo de productos cuyo
// bloqueo de fila falla dentro de la transacción; las lecturas sin bloqueo
// (validación previa) siguen funcionando.
func (env *testEnv) failProductLock(err error) {
	failing := &lockFailProductRepo{fakeProductRepo: env.products, err: err}
	txRunner := &fakeTxRunner{repos: billing.BillingRepos{
		Invoices:  env.invoices,
		Payments:  env.payments,
		Products:  failing,
		Customers: env.customers,
		Credits:   env.credits,
		Quotes:    env.quotes,
	}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	env.uc = billing.NewInvoiceUseCase(
		txRunner, env.shops, env.customers, env.credits,
		env.products, env.invoices, env.payments,
		fakePDFRenderer{}, env.notifier, env.gateway, log,
	)
}

func (env *testEnv) quoteUseCase() *billing.QuoteUseCase {
	txRunner := &fakeTxRunner{repos: billing.BillingRepos{
		Invoices:  env.invoices,
		Payments:  env.payments,
		Products:  env.products,
		Customers: env.customers,
		Credits:   env.credits,
		Quotes:    env.quotes,
	}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return billing.NewQuoteUseCase(txRunner, env.quotes, env.customers, env.products, log)
}
