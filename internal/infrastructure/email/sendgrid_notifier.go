// Package email implementa las notificaciones salientes sobre SendGrid.
package email

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	appbilling "github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/pkg/config"
)

var _ appbilling.Notifier = (*SendGridNotifier)(nil)

// SendGridNotifier implementa billing.Notifier sobre la API v3 de SendGrid.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridNotifier construye el notificador.
func NewSendGridNotifier(cfg config.SendGridConfig) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

// SendInvoiceEmail envía la factura con el PDF adjunto.
func (n *SendGridNotifier) SendInvoiceEmail(ctx context.Context, toEmail string, invoice *entity.Invoice, pdf []byte) error {
	subject := fmt.Sprintf("Factura %s", invoice.InvoiceNumber)
	body := fmt.Sprintf(
		"Adjuntamos su factura %s por ₹%s. Saldo pendiente: ₹%s.",
		invoice.InvoiceNumber, invoice.GrandTotal().StringFixed(2), invoice.BalanceDue.StringFixed(2),
	)
	return n.send(toEmail, subject, body, invoice.InvoiceNumber, pdf)
}

// SendReceiptEmail envía el comprobante de pago con el PDF actualizado.
func (n *SendGridNotifier) SendReceiptEmail(ctx context.Context, toEmail string, invoice *entity.Invoice, pdf []byte) error {
	subject := fmt.Sprintf("Recibo de pago — factura %s", invoice.InvoiceNumber)
	body := fmt.Sprintf(
		"Registramos su pago. Pagado: ₹%s. Saldo pendiente: ₹%s.",
		invoice.AmountPaid.StringFixed(2), invoice.BalanceDue.StringFixed(2),
	)
	return n.send(toEmail, subject, body, invoice.InvoiceNumber, pdf)
}

// SendPaymentReminder envía el recordatorio de saldo vencido (sin adjunto).
func (n *SendGridNotifier) SendPaymentReminder(ctx context.Context, toEmail string, invoice *entity.Invoice) error {
	subject := fmt.Sprintf("Recordatorio de pago — factura %s", invoice.InvoiceNumber)
	body := fmt.Sprintf(
		"Su factura %s del %s tiene un saldo pendiente de ₹%s.",
		invoice.InvoiceNumber, invoice.IssueDate.Format("02/01/2006"), invoice.BalanceDue.StringFixed(2),
	)
	return n.send(toEmail, subject, body, "", nil)
}

func (n *SendGridNotifier) send(toEmail, subject, body, attachmentName string, pdf []byte) error {
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmailPlainText(n.from, subject, to, body)
	if len(pdf) > 0 {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(pdf))
		attachment.SetType("application/pdf")
		attachment.SetFilename(attachmentName + ".pdf")
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}
	resp, err := n.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
