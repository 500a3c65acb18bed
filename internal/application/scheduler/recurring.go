// Package scheduler contiene los trabajos programados: generación de
// facturas recurrentes y recordatorios de pago. El cursor del perfil solo
// avanza tras generar con éxito, así que re-ejecutar tras un crash no
// duplica facturas.
package scheduler

import (
	"context"
	"time"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
	"github.com/invogen/billing-api/pkg/logger"
)

// InvoiceService es la porción del caso de uso de facturas que los trabajos
// necesitan: generar desde perfil y enviar por email.
type InvoiceService interface {
	CreateFromRecurringProfile(ctx context.Context, profile *entity.RecurringInvoice) (*dto.InvoiceDetailResponse, error)
	EmailInvoice(ctx context.Context, invoiceID string) error
}

// Scheduler agrupa los trabajos diarios.
type Scheduler struct {
	recurringRepo repository.RecurringInvoiceRepository
	invoiceRepo   repository.InvoiceRepository
	customerRepo  repository.CustomerRepository
	invoices      InvoiceService
	reminder      ReminderSender
	log           *logger.Logger
}

// ReminderSender envía el recordatorio de pago de una factura vencida.
type ReminderSender interface {
	SendPaymentReminder(ctx context.Context, toEmail string, invoice *entity.Invoice) error
}

// New construye el scheduler.
func New(
	recurringRepo repository.RecurringInvoiceRepository,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	invoices InvoiceService,
	reminder ReminderSender,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		recurringRepo: recurringRepo,
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		invoices:      invoices,
		reminder:      reminder,
		log:           log,
	}
}

// ProcessRecurringInvoices genera las facturas de todos los perfiles vencidos.
// Cada perfil se procesa de forma aislada: su fallo se registra y el lote
// continúa. Por corrida se genera a lo sumo una factura por perfil; el cursor
// avanza en bucle hasta quedar estrictamente después de hoy, de modo que un
// perfil atrasado varios periodos (caída del servicio) se pone al día sin
// inundar al cliente de facturas.
func (s *Scheduler) ProcessRecurringInvoices(ctx context.Context) {
	now := time.Now()
	profiles, err := s.recurringRepo.FindDue(now)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudieron cargar los perfiles recurrentes vencidos")
		return
	}
	s.log.Info().Int("perfiles", len(profiles)).Msg("corrida de facturación recurrente")
	for _, profile := range profiles {
		s.processProfile(ctx, profile, now)
	}
}

func (s *Scheduler) processProfile(ctx context.Context, profile *entity.RecurringInvoice, now time.Time) {
	detail, err := s.invoices.CreateFromRecurringProfile(ctx, profile)
	if err != nil {
		s.log.Error().Err(err).Str("profile_id", profile.ID).Msg("fallo generando factura recurrente")
		return
	}
	s.log.Info().Str("profile_id", profile.ID).Str("invoice", detail.InvoiceNumber).Msg("factura recurrente generada")

	if profile.AutoSendEmail {
		// El envío es posterior al commit: su fallo no afecta la factura.
		if err := s.invoices.EmailInvoice(ctx, detail.ID); err != nil {
			s.log.Warn().Err(err).Str("invoice", detail.InvoiceNumber).Msg("no se pudo enviar la factura recurrente")
		}
	}

	next := profile.NextIssueDate
	for !next.After(now) {
		next = profile.Frequency.Next(next)
	}
	if profile.EndDate != nil && next.After(*profile.EndDate) {
		if err := s.recurringRepo.Delete(profile.ID); err != nil {
			s.log.Error().Err(err).Str("profile_id", profile.ID).Msg("no se pudo eliminar el perfil vencido")
		}
		return
	}
	if err := s.recurringRepo.AdvanceCursor(profile.ID, next); err != nil {
		s.log.Error().Err(err).Str("profile_id", profile.ID).Msg("no se pudo avanzar el cursor del perfil")
	}
}
