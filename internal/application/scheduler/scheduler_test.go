package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/application/scheduler"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los trabajos programados.
// ──────────────────────────────────────────────────────────────────────────────

type fakeRecurringRepo struct {
	profiles map[string]*entity.RecurringInvoice
	deleted  []string
}

func newFakeRecurringRepo() *fakeRecurringRepo {
	return &fakeRecurringRepo{profiles: make(map[string]*entity.RecurringInvoice)}
}

func (f *fakeRecurringRepo) Create(p *entity.RecurringInvoice) error {
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeRecurringRepo) Update(p *entity.RecurringInvoice) error {
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeRecurringRepo) Delete(id string) error {
	delete(f.profiles, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRecurringRepo) GetByID(id string) (*entity.RecurringInvoice, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRecurringRepo) ListByShop(shopID string) ([]*entity.RecurringInvoice, error) {
	var out []*entity.RecurringInvoice
	for _, p := range f.profiles {
		if p.ShopID == shopID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRecurringRepo) FindDue(asOf time.Time) ([]*entity.RecurringInvoice, error) {
	var out []*entity.RecurringInvoice
	for _, p := range f.profiles {
		if !p.NextIssueDate.After(asOf) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRecurringRepo) AdvanceCursor(id string, next time.Time) error {
	p, ok := f.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.NextIssueDate = next
	return nil
}

type fakeReminderInvoiceRepo struct {
	invoices map[string]*entity.Invoice
}

func newFakeReminderInvoiceRepo() *fakeReminderInvoiceRepo {
	return &fakeReminderInvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

func (f *fakeReminderInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeReminderInvoiceRepo) CreateItem(*entity.InvoiceItem) error { return nil }

func (f *fakeReminderInvoiceRepo) Update(inv *entity.Invoice) error {
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeReminderInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeReminderInvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return f.GetByID(id)
}

func (f *fakeReminderInvoiceRepo) GetItemsByInvoiceID(string) ([]*entity.InvoiceItem, error) {
	return nil, nil
}

func (f *fakeReminderInvoiceRepo) ListByShop(string, int, int) ([]*entity.Invoice, error) {
	return nil, nil
}

func (f *fakeReminderInvoiceRepo) FindForReminder(cutoff time.Time) ([]*entity.Invoice, error) {
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

type fakeCustomerLookup struct {
	customers map[string]*entity.Customer
}

func (f *fakeCustomerLookup) Create(c *entity.Customer) error {
	if f.customers == nil {
		f.customers = make(map[string]*entity.Customer)
	}
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *fakeCustomerLookup) GetByID(id string) (*entity.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomerLookup) ListByShop(string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerLookup) Update(*entity.Customer) error { return nil }
func (f *fakeCustomerLookup) Delete(string) error           { return nil }

// fakeInvoiceService registra cada generación; failFor simula un perfil roto.
type fakeInvoiceService struct {
	generated []string // IDs de perfil en orden de generación
	emailed   []string // IDs de factura enviados
	failFor   map[string]bool
}

func (f *fakeInvoiceService) CreateFromRecurringProfile(_ context.Context, profile *entity.RecurringInvoice) (*dto.InvoiceDetailResponse, error) {
	if f.failFor[profile.ID] {
		return nil, errors.New("fallo simulado")
	}
	f.generated = append(f.generated, profile.ID)
	return &dto.InvoiceDetailResponse{
		ID:            profile.ID + "-inv",
		InvoiceNumber: "INV-TEST",
	}, nil
}

func (f *fakeInvoiceService) EmailInvoice(_ context.Context, invoiceID string) error {
	f.emailed = append(f.emailed, invoiceID)
	return nil
}

type fakeReminderSender struct {
	sent []string
	fail bool
}

func (f *fakeReminderSender) SendPaymentReminder(_ context.Context, toEmail string, _ *entity.Invoice) error {
	if f.fail {
		return errors.New("smtp caído")
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func perfil(id string, next time.Time, end *time.Time) *entity.RecurringInvoice {
	return &entity.RecurringInvoice{
		ID:            id,
		ShopID:        "shop-1",
		CustomerID:    "customer-1",
		Frequency:     entity.FrequencyMonthly,
		StartDate:     next.AddDate(-1, 0, 0),
		EndDate:       end,
		NextIssueDate: next,
		Items: []entity.RecurringInvoiceItem{
			{ProductID: "product-1", Quantity: 1},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessRecurringInvoices_GeneraYAvanzaCursor(t *testing.T) {
	repo := newFakeRecurringRepo()
	ayer := time.Now().AddDate(0, 0, -1)
	require.NoError(t, repo.Create(perfil("p1", ayer, nil)))
	svc := &fakeInvoiceService{}

	s := scheduler.New(repo, newFakeReminderInvoiceRepo(), &fakeCustomerLookup{}, svc, &fakeReminderSender{}, testLogger())
	s.ProcessRecurringInvoices(context.Background())

	assert.Equal(t, []string{"p1"}, svc.generated)
	updated, _ := repo.GetByID("p1")
	require.NotNil(t, updated)
	assert.True(t, updated.NextIssueDate.After(time.Now()), "el cursor queda estrictamente en el futuro")
}

func TestProcessRecurringInvoices_AtrasoGeneraUnaSolaFactura(t *testing.T) {
	repo := newFakeRecurringRepo()
	// Tres meses de atraso (caída del servicio): una sola factura por corrida.
	require.NoError(t, repo.Create(perfil("p1", time.Now().AddDate(0, -3, 0), nil)))
	svc := &fakeInvoiceService{}

	s := scheduler.New(repo, newFakeReminderInvoiceRepo(), &fakeCustomerLookup{}, svc, &fakeReminderSender{}, testLogger())
	s.ProcessRecurringInvoices(context.Background())

	assert.Len(t, svc.generated, 1, "no se inunda al cliente con facturas atrasadas")
	updated, _ := repo.GetByID("p1")
	require.NotNil(t, updated)
	assert.True(t, updated.NextIssueDate.After(time.Now()), "el cursor se pone al día de una vez")
}

func TestProcessRecurringInvoices_PerfilVencidoSeElimina(t *testing.T) {
	repo := newFakeRecurringRepo()
	ayer := time.Now().AddDate(0, 0, -1)
	fin := time.Now().AddDate(0, 0, 3) // el siguiente cursor mensual rebasa EndDate
	require.NoError(t, repo.Create(perfil("p1", ayer, &fin)))
	svc := &fakeInvoiceService{}

	s := scheduler.New(repo, newFakeReminderInvoiceRepo(), &fakeCustomerLookup{}, svc, &fakeReminderSender{}, testLogger())
	s.ProcessRecurringInvoices(context.Background())

	assert.Equal(t, []string{"p1"}, svc.generated, "la última factura sí se genera")
	assert.Contains(t, repo.deleted, "p1")
}

func TestProcessRecurringInvoices_FalloAisladoPorPerfil(t *testing.T) {
	repo := newFakeRecurringRepo()
	ayer := time.Now().AddDate(0, 0, -1)
	require.NoError(t, repo.Create(perfil("roto", ayer, nil)))
	require.NoError(t, repo.Create(perfil("sano", ayer, nil)))
	svc := &fakeInvoiceService{failFor: map[string]bool{"roto": true}}

	s := scheduler.New(repo, newFakeReminderInvoiceRepo(), &fakeCustomerLookup{}, svc, &fakeReminderSender{}, testLogger())
	s.ProcessRecurringInvoices(context.Background())

	assert.Equal(t, []string{"sano"}, svc.generated, "el perfil roto no detiene el lote")
	roto, _ := repo.GetByID("roto")
	require.NotNil(t, roto)
	assert.False(t, roto.NextIssueDate.After(time.Now()), "el cursor del perfil fallido no avanza")
}

func TestProcessRecurringInvoices_AutoEnvioDeEmail(t *testing.T) {
	repo := newFakeRecurringRepo()
	ayer := time.Now().AddDate(0, 0, -1)
	p := perfil("p1", ayer, nil)
	p.AutoSendEmail = true
	require.NoError(t, repo.Create(p))
	svc := &fakeInvoiceService{}

	s := scheduler.New(repo, newFakeReminderInvoiceRepo(), &fakeCustomerLookup{}, svc, &fakeReminderSender{}, testLogger())
	s.ProcessRecurringInvoices(context.Background())

	assert.Equal(t, []string{"p1-inv"}, svc.emailed)
}

func TestProcessPaymentReminders_EnviaYMarca(t *testing.T) {
	invoices := newFakeReminderInvoiceRepo()
	customers := &fakeCustomerLookup{}
	require.NoError(t, customers.Create(&entity.Customer{ID: "customer-1", ShopID: "shop-1", Name: "Ana", Email: "ana@example.com"}))
	require.NoError(t, invoices.Create(&entity.Invoice{
		ID:         "inv-1",
		ShopID:     "shop-1",
		CustomerID: "customer-1",
		Status:     entity.InvoicePending,
		IssueDate:  time.Now().AddDate(0, 0, -10),
	}))
	sender := &fakeReminderSender{}

	s := scheduler.New(newFakeRecurringRepo(), invoices, customers, &fakeInvoiceService{}, sender, testLogger())
	s.ProcessPaymentReminders(context.Background())

	assert.Equal(t, []string{"ana@example.com"}, sender.sent)
	inv, _ := invoices.GetByID("inv-1")
	require.NotNil(t, inv.LastReminderSent)

	// Segunda corrida inmediata: el recordatorio reciente la excluye.
	s.ProcessPaymentReminders(context.Background())
	assert.Len(t, sender.sent, 1)
}

func TestProcessPaymentReminders_SinEmailSeOmite(t *testing.T) {
	invoices := newFakeReminderInvoiceRepo()
	customers := &fakeCustomerLookup{}
	require.NoError(t, customers.Create(&entity.Customer{ID: "customer-1", ShopID: "shop-1", Name: "Ana"}))
	require.NoError(t, invoices.Create(&entity.Invoice{
		ID:         "inv-1",
		ShopID:     "shop-1",
		CustomerID: "customer-1",
		Status:     entity.InvoicePartiallyPaid,
		IssueDate:  time.Now().AddDate(0, 0, -10),
	}))
	sender := &fakeReminderSender{}

	s := scheduler.New(newFakeRecurringRepo(), invoices, customers, &fakeInvoiceService{}, sender, testLogger())
	s.ProcessPaymentReminders(context.Background())

	assert.Empty(t, sender.sent)
}

func TestProcessPaymentReminders_FacturaRecienteNoSeRecuerda(t *testing.T) {
	invoices := newFakeReminderInvoiceRepo()
	customers := &fakeCustomerLookup{}
	require.NoError(t, customers.Create(&entity.Customer{ID: "customer-1", ShopID: "shop-1", Name: "Ana", Email: "ana@example.com"}))
	require.NoError(t, invoices.Create(&entity.Invoice{
		ID:         "inv-1",
		ShopID:     "shop-1",
		CustomerID: "customer-1",
		Status:     entity.InvoicePending,
		IssueDate:  time.Now().AddDate(0, 0, -2),
	}))
	sender := &fakeReminderSender{}

	s := scheduler.New(newFakeRecurringRepo(), invoices, customers, &fakeInvoiceService{}, sender, testLogger())
	s.ProcessPaymentReminders(context.Background())

	assert.Empty(t, sender.sent, "menos de una semana de emitida")
}
