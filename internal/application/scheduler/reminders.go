package scheduler

import (
	"context"
	"time"
)

// reminderAge antigüedad mínima de la factura, y también el intervalo mínimo
// entre recordatorios al mismo cliente.
const reminderAge = 7 * 24 * time.Hour

// ProcessPaymentReminders envía recordatorios de las facturas PENDING o
// PARTIALLY_PAID con al menos una semana de emitidas y sin recordatorio
// reciente. Fallos por factura se registran y el lote continúa.
func (s *Scheduler) ProcessPaymentReminders(ctx context.Context) {
	now := time.Now()
	cutoff := now.Add(-reminderAge)
	invoices, err := s.invoiceRepo.FindForReminder(cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudieron cargar facturas para recordatorio")
		return
	}
	s.log.Info().Int("facturas", len(invoices)).Msg("corrida de recordatorios de pago")
	for _, inv := range invoices {
		customer, err := s.customerRepo.GetByID(inv.CustomerID)
		if err != nil || customer == nil || customer.Email == "" {
			continue
		}
		if err := s.reminder.SendPaymentReminder(ctx, customer.Email, inv); err != nil {
			s.log.Warn().Err(err).Str("invoice", inv.InvoiceNumber).Msg("no se pudo enviar el recordatorio")
			continue
		}
		sent := now
		inv.LastReminderSent = &sent
		inv.UpdatedAt = now
		if err := s.invoiceRepo.Update(inv); err != nil {
			s.log.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("no se pudo marcar el recordatorio enviado")
		}
	}
}
